package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/fndeploy/internal/domain"
	"github.com/bft-labs/fndeploy/internal/ports"
)

// Deployer drives one package to a terminal outcome.
type Deployer struct {
	updater ports.FunctionUpdater
	policy  domain.RetryPolicy
	sleeper ports.Sleeper
	logger  ports.Logger
	emitter EventEmitter
}

// NewDeployer creates a Deployer. A nil sleeper uses a real timer and a nil
// emitter disables transition events.
func NewDeployer(
	updater ports.FunctionUpdater,
	policy domain.RetryPolicy,
	sleeper ports.Sleeper,
	logger ports.Logger,
	emitter EventEmitter,
) (*Deployer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &Deployer{
		updater: updater,
		policy:  policy,
		sleeper: sleeper,
		logger:  logger,
		emitter: emitter,
	}, nil
}

// Deploy uploads pkg, retrying transient failures with backoff.
// Attempts are strictly sequential. The returned error is non-nil only when
// ctx ends before a terminal state is reached.
func (d *Deployer) Deploy(ctx context.Context, pkg domain.Package) (domain.Outcome, error) {
	maxAttempts := d.policy.MaxAttempts

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Outcome{}, fmt.Errorf("deployment aborted before attempt %d: %w", attempt, err)
		}

		res := d.updater.Update(ctx, pkg)

		// A request cut short by our own context is not a remote failure.
		if res.Err != nil && ctx.Err() != nil {
			return domain.Outcome{}, fmt.Errorf("deployment aborted during attempt %d: %w", attempt, ctx.Err())
		}

		if !d.policy.Retryable(res) {
			out := domain.Classify(res, attempt)
			d.finish(out, attempt)
			return out, nil
		}

		if attempt >= maxAttempts {
			out := domain.Outcome{
				Kind:     domain.OutcomeExhaustedRetries,
				Attempts: attempt,
				LastErr:  res.Error(),
			}
			d.finish(out, attempt)
			return out, nil
		}

		delay := d.policy.Backoff(attempt)
		d.logger.Warn("deploy attempt failed, retrying",
			ports.Int("attempt", attempt),
			ports.Int("max_attempts", maxAttempts),
			ports.Int("status", res.StatusCode),
			ports.Duration("backoff", delay),
			ports.Err(res.Error()),
		)
		d.emit(StateAttempting, StateAttempting, attempt)

		if err := d.sleeper.Sleep(ctx, delay); err != nil {
			return domain.Outcome{}, fmt.Errorf("deployment aborted after attempt %d: %w", attempt, err)
		}
	}
}

func (d *Deployer) finish(out domain.Outcome, attempt int) {
	switch out.Kind {
	case domain.OutcomeSuccess:
		d.logger.Info("function deployed",
			ports.String("deployed_at", out.DeployedAt),
			ports.Int("attempts", attempt),
		)
		d.emit(StateAttempting, StateSuccess, attempt)
	case domain.OutcomeRemoteRejection:
		d.logger.Error("remote rejected deployment",
			ports.Strings("errors", out.Errors),
			ports.Int("attempts", attempt),
		)
		d.emit(StateAttempting, StateRemoteRejection, attempt)
	case domain.OutcomeExhaustedRetries:
		d.logger.Error("deployment failed, no attempts left",
			ports.Int("attempts", attempt),
			ports.Err(out.LastErr),
		)
		d.emit(StateAttempting, StateExhaustedRetries, attempt)
	}
}

func (d *Deployer) emit(previous, current State, attempt int) {
	if d.emitter != nil {
		d.emitter.OnStateChange(previous, current, attempt)
	}
}
