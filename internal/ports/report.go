package ports

import (
	"context"
	"time"

	"github.com/bft-labs/fndeploy/internal/domain"
)

// Report is the record of one finished deployment run.
type Report struct {
	RunID      string    `json:"run_id"`
	FunctionID string    `json:"function_id"`
	JobID      string    `json:"job_id"`
	Source     string    `json:"source"`
	Outcome    string    `json:"outcome"`
	Attempts   int       `json:"attempts"`
	DeployedAt string    `json:"deployed_at,omitempty"`
	Errors     []string  `json:"errors,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewReport builds a report from a terminal outcome.
func NewReport(runID, functionID string, pkg domain.Package, out domain.Outcome, finishedAt time.Time) Report {
	r := Report{
		RunID:      runID,
		FunctionID: functionID,
		JobID:      pkg.JobID,
		Source:     pkg.Source.Path,
		Outcome:    out.Kind.String(),
		Attempts:   out.Attempts,
		DeployedAt: out.DeployedAt,
		Errors:     out.Errors,
		FinishedAt: finishedAt.UTC(),
	}
	if out.LastErr != nil {
		r.LastError = out.LastErr.Error()
	}
	return r
}

// ReportWriter persists run reports.
type ReportWriter interface {
	// Write stores the report atomically.
	Write(ctx context.Context, report Report) error
}
