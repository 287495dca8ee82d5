package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/fndeploy/internal/domain"
	"github.com/bft-labs/fndeploy/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// scriptedUpdater replays results in order and repeats the last one.
type scriptedUpdater struct {
	mu      sync.Mutex
	results []domain.AttemptResult
	calls   []domain.Package
}

func (u *scriptedUpdater) Update(ctx context.Context, pkg domain.Package) domain.AttemptResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, pkg)
	i := len(u.calls) - 1
	if i >= len(u.results) {
		i = len(u.results) - 1
	}
	return u.results[i]
}

func (u *scriptedUpdater) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

// recordingSleeper records delays instead of sleeping.
type recordingSleeper struct {
	delays []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

type transition struct {
	previous State
	current  State
	attempt  int
}

type mockEmitter struct {
	events []transition
}

func (m *mockEmitter) OnStateChange(previous, current State, attempt int) {
	m.events = append(m.events, transition{previous, current, attempt})
}

func status(code int) domain.AttemptResult {
	return domain.AttemptResult{StatusCode: code}
}

func deployed(at string) domain.AttemptResult {
	return domain.AttemptResult{StatusCode: 200, DeployedAt: at}
}

func rejected(msgs ...string) domain.AttemptResult {
	return domain.AttemptResult{StatusCode: 200, Errors: msgs}
}
