package main

import (
	"net/http"

	"github.com/rs/zerolog"

	fsAdapter "github.com/bft-labs/fndeploy/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/fndeploy/internal/adapters/http"
	"github.com/bft-labs/fndeploy/internal/adapters/js"
	logAdapter "github.com/bft-labs/fndeploy/internal/adapters/log"
	"github.com/bft-labs/fndeploy/internal/app"
	"github.com/bft-labs/fndeploy/internal/cliconfig"
)

// buildPipeline wires the adapters for a full deployment.
func buildPipeline(cfg cliconfig.Config, log zerolog.Logger) (*app.Pipeline, error) {
	logger := logAdapter.NewZerologAdapterWithLogger(log)

	client := httpAdapter.NewFunctionClient(
		&http.Client{Timeout: cfg.HTTPTimeout},
		cfg.APIURL,
		cfg.FunctionID,
		cfg.Token,
	)

	deployer, err := app.NewDeployer(client, cfg.RetryPolicy(), app.TimerSleeper{}, logger, nil)
	if err != nil {
		return nil, err
	}

	var opts []app.PipelineOption
	if cfg.ReportPath != "" {
		opts = append(opts, app.WithReportWriter(fsAdapter.NewReportFile(cfg.ReportPath)))
	}

	return app.NewPipeline(
		pipelineConfig(cfg),
		fsAdapter.NewArtifactLoader(),
		js.NewValidator(),
		deployer,
		logger,
		opts...,
	), nil
}

// newChecker wires a pipeline that can only package and validate.
func newChecker(cfg cliconfig.Config, log zerolog.Logger) *app.Pipeline {
	return app.NewPipeline(
		pipelineConfig(cfg),
		fsAdapter.NewArtifactLoader(),
		js.NewValidator(),
		nil,
		logAdapter.NewZerologAdapterWithLogger(log),
	)
}

func pipelineConfig(cfg cliconfig.Config) app.PipelineConfig {
	return app.PipelineConfig{
		SourcePath: cfg.SourcePath,
		JobID:      cfg.JobID,
		FunctionID: cfg.FunctionID,
	}
}
