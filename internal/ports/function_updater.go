package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/bft-labs/fndeploy/internal/domain"
)

// FunctionUpdater uploads a package to the remote function.
type FunctionUpdater interface {
	// Update performs exactly one request. Transport failures are reported
	// in AttemptResult.Err, never as retries.
	Update(ctx context.Context, pkg domain.Package) domain.AttemptResult
}

// Sleeper suspends the caller between attempts.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// HTTPClient is what the function updater sends requests through.
// *http.Client satisfies it; tests swap in recorders.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
