package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/fndeploy/internal/adapters/log"
	"github.com/bft-labs/fndeploy/internal/app"
	"github.com/bft-labs/fndeploy/internal/cliconfig"
	"github.com/bft-labs/fndeploy/internal/domain"
)

const helpDescription = `
Push a destination function's source to the functions API.

Steps:
  - Reads the source file (default ./src/index.js).
  - Prepends a provenance header naming the job and deploy time.
  - Parses the result as JavaScript; invalid code never leaves the machine.
  - PATCHes the function, retrying network errors and 4xx/5xx responses
    with exponential backoff (2s, 4s, 8s, ... up to 12 attempts).

Configure via flags, FNDEPLOY_* / GITHUB_JOB / FUNCTION_ID / PUBLIC_API_TOKEN
environment variables, a .env file or $HOME/.fndeploy/config.toml.
`

var exampleUsage = strings.TrimSpace(`
  GITHUB_JOB=deploy FUNCTION_ID=sfn_123 PUBLIC_API_TOKEN=<token> fndeploy
  fndeploy --source src/index.js --function-id sfn_123 --job-id local --token <token>
  fndeploy --watch --env-file .env.local
  fndeploy validate --source src/index.js
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// options carries the flags that are not part of cliconfig.Config.
type options struct {
	configPath string
	envFile    string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	opts := &options{}

	root := &cobra.Command{
		Use:           "fndeploy",
		Short:         "Deploy a destination function with retry and backoff",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := loadConfig(cmd, &cfg, opts, stderr)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return report(log, stdout, err)
			}

			log.Info().Interface("config", cfg.Masked()).Msg("configuration")

			pipeline, err := buildPipeline(cfg, log)
			if err != nil {
				return report(log, stdout, err)
			}

			if cfg.Watch {
				w := app.NewWatcher(pipeline, cfg.SourcePath, cfg.DebounceDelay,
					logAdapter.NewZerologAdapterWithLogger(log),
					func(run app.Run, err error) { printRun(stdout, run, err) })
				if err := w.Run(cmd.Context()); err != nil {
					return report(log, stdout, err)
				}
				log.Info().Msg("watch stopped")
				return nil
			}

			run, err := pipeline.Run(cmd.Context())
			if err == nil {
				err = run.Outcome.Err()
			}
			printRun(stdout, run, err)
			if err != nil {
				log.Error().Err(err).Str("run_id", run.ID).Msg("fndeploy")
			}
			return err
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Package and parse the function source without deploying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := loadConfig(cmd, &cfg, opts, stderr)
			if err != nil {
				return err
			}
			if err := cfg.ValidateLocal(); err != nil {
				return report(log, stdout, err)
			}

			pkg, err := newChecker(cfg, log).Check()
			if err != nil {
				return report(log, stdout, err)
			}

			color.New(color.FgGreen).Fprintf(stdout, "✓ %s is valid JavaScript (%d bytes packaged)\n", pkg.Source.Path, len(pkg.Code))
			return nil
		},
	}
	root.AddCommand(validate)

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default: $HOME/.fndeploy/config.toml)")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading environment variables (optional)")
	f.StringVar(&cfg.SourcePath, "source", cfg.SourcePath, "function source file")
	f.StringVar(&cfg.JobID, "job-id", "", "job identifier written into the provenance header (env GITHUB_JOB)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.Flags().StringVar(&cfg.FunctionID, "function-id", "", "remote function identifier (env FUNCTION_ID)")
	root.Flags().StringVar(&cfg.Token, "token", "", "API bearer token (env PUBLIC_API_TOKEN)")
	root.Flags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "functions API base URL")
	if err := root.Flags().MarkHidden("api-url"); err != nil {
		fmt.Fprintf(stderr, "failed to hide api-url flag: %v\n", err)
	}
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-request HTTP timeout (0 disables)")
	root.Flags().IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "maximum upload attempts")
	root.Flags().DurationVar(&cfg.BackoffBase, "backoff-base", cfg.BackoffBase, "backoff base; attempt n waits base*2^n")
	root.Flags().DurationVar(&cfg.MaxBackoff, "max-backoff", cfg.MaxBackoff, "cap on a single backoff delay (0 = uncapped)")
	root.Flags().StringVar(&cfg.ReportPath, "report", "", "write the outcome as JSON to this file")
	root.Flags().BoolVar(&cfg.Watch, "watch", false, "redeploy whenever the source file changes")
	root.Flags().DurationVar(&cfg.DebounceDelay, "debounce", cfg.DebounceDelay, "quiet period before a watched change is deployed")

	return root
}

// loadConfig layers file, environment and flags onto cfg, in increasing precedence.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, opts *options, stderr io.Writer) (zerolog.Logger, error) {
	log := cliconfig.Logger(stderr, zerolog.InfoLevel)

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := opts.configPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			err = fmt.Errorf("load config: %w", err)
			log.Error().Err(err).Msg("fndeploy")
			return log, err
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			log.Error().Err(err).Msg("fndeploy")
			return log, err
		}
	}

	if err := cliconfig.LoadDotEnv(opts.envFile); err != nil {
		log.Error().Err(err).Msg("fndeploy")
		return log, err
	}
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		log.Error().Err(err).Msg("fndeploy")
		return log, err
	}

	lvl, err := cfg.Level()
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		log.Error().Err(err).Msg("fndeploy")
		return log, err
	}
	return log.Level(lvl), nil
}

// report logs a fatal error, prints it and hands it back for the exit code.
func report(log zerolog.Logger, stdout io.Writer, err error) error {
	log.Error().Err(err).Msg("fndeploy")
	color.New(color.FgRed).Fprintf(stdout, "✗ %v\n", err)
	return err
}

func printRun(w io.Writer, run app.Run, err error) {
	if err == nil {
		err = run.Outcome.Err()
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "✗ %v\n", err)
		return
	}
	color.New(color.FgGreen).Fprintf(w, "✓ Successfully pushed function code: %s\n", run.Outcome.DeployedAt)
}
