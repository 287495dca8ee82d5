package cliconfig

import (
	"io"

	"github.com/rs/zerolog"

	logAdapter "github.com/bft-labs/fndeploy/internal/adapters/log"
)

// Logger returns the console logger used by the CLI at the given level.
func Logger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return logAdapter.NewConsoleLoggerTo(w, level)
}
