package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/fndeploy/internal/ports"
)

// ReportFile implements ports.ReportWriter using a JSON file.
type ReportFile struct {
	path string
}

// NewReportFile creates a ReportFile writing to path.
func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

// Write persists the report atomically.
// Uses atomic write (write to temp file, then rename) so readers never see a partial report.
func (r *ReportFile) Write(ctx context.Context, report ports.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}

// Path returns the full path to the report file.
func (r *ReportFile) Path() string {
	return r.path
}
