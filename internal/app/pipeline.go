package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/fndeploy/internal/domain"
	"github.com/bft-labs/fndeploy/internal/ports"
)

// PipelineConfig identifies what is deployed where.
type PipelineConfig struct {
	SourcePath string
	JobID      string
	FunctionID string
}

// Run is the record of one pipeline execution.
type Run struct {
	ID      string
	Package domain.Package
	Outcome domain.Outcome
}

// Pipeline loads, packages, validates and deploys the function source.
type Pipeline struct {
	config    PipelineConfig
	loader    ports.ArtifactLoader
	validator ports.SyntaxValidator
	deployer  *Deployer
	reporter  ports.ReportWriter
	logger    ports.Logger

	now   func() time.Time
	runID func() string
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithReportWriter writes a report after every deployment.
func WithReportWriter(w ports.ReportWriter) PipelineOption {
	return func(p *Pipeline) { p.reporter = w }
}

// WithClock overrides the time source used for provenance headers.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithRunIDs overrides run ID generation.
func WithRunIDs(next func() string) PipelineOption {
	return func(p *Pipeline) { p.runID = next }
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	config PipelineConfig,
	loader ports.ArtifactLoader,
	validator ports.SyntaxValidator,
	deployer *Deployer,
	logger ports.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		config:    config,
		loader:    loader,
		validator: validator,
		deployer:  deployer,
		logger:    logger,
		now:       time.Now,
		runID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check loads, packages and validates the source without touching the network.
func (p *Pipeline) Check() (domain.Package, error) {
	artifact, err := p.loader.Load(p.config.SourcePath)
	if err != nil {
		return domain.Package{}, fmt.Errorf("load artifact: %w", err)
	}

	pkg := domain.BuildPackage(artifact, p.config.JobID, p.now())

	if err := p.validator.Validate(pkg); err != nil {
		return domain.Package{}, fmt.Errorf("validate %s: %w", artifact.Path, err)
	}
	return pkg, nil
}

// Run executes one full deployment. The error is non-nil for local failures
// (unreadable source, invalid syntax) and cancellation; remote failures are
// reported through Run.Outcome.
func (p *Pipeline) Run(ctx context.Context) (Run, error) {
	run := Run{ID: p.runID()}

	pkg, err := p.Check()
	if err != nil {
		p.logger.Error("deployment aborted before upload",
			ports.String("run_id", run.ID),
			ports.String("source", p.config.SourcePath),
			ports.Err(err),
		)
		return run, err
	}
	run.Package = pkg

	p.logger.Info("deploying function",
		ports.String("run_id", run.ID),
		ports.String("function_id", p.config.FunctionID),
		ports.String("job_id", p.config.JobID),
		ports.String("source", pkg.Source.Path),
		ports.Int("bytes", len(pkg.Code)),
	)

	out, err := p.deployer.Deploy(ctx, pkg)
	if err != nil {
		return run, err
	}
	run.Outcome = out

	if p.reporter != nil {
		report := ports.NewReport(run.ID, p.config.FunctionID, pkg, out, p.now())
		if err := p.reporter.Write(ctx, report); err != nil {
			p.logger.Warn("failed to write report", ports.String("run_id", run.ID), ports.Err(err))
		}
	}

	return run, nil
}
