package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeployedAtLayout formats the provenance timestamp as UTC with millisecond precision.
const DeployedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// SourceArtifact is the function source as read from disk.
type SourceArtifact struct {
	// Path is where the content was read from.
	Path string

	// Content is the raw source text.
	Content string
}

// Package is an artifact annotated with provenance, ready for upload.
type Package struct {
	// Code is the full text sent to the remote service.
	Code string

	// JobID identifies the job that triggered the deployment.
	JobID string

	// BuiltAt is the timestamp written into the header.
	BuiltAt time.Time

	// Source is the artifact the package was built from.
	Source SourceArtifact
}

// BuildPackage prepends a provenance header to the artifact content.
// It is pure: the same inputs always produce the same package.
func BuildPackage(artifact SourceArtifact, jobID string, at time.Time) Package {
	var b strings.Builder
	b.WriteString("/**\n")
	fmt.Fprintf(&b, " * Output from GITHUB %s Environment\n", commentSafe(jobID))
	fmt.Fprintf(&b, " * - Last Deployed: %s\n", at.UTC().Format(DeployedAtLayout))
	b.WriteString(" */\n\n")
	b.WriteString(artifact.Content)
	if !strings.HasSuffix(artifact.Content, "\n") {
		b.WriteString("\n")
	}

	return Package{
		Code:    b.String(),
		JobID:   jobID,
		BuiltAt: at,
		Source:  artifact,
	}
}

// commentSafe keeps a value from closing the surrounding block comment.
func commentSafe(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "*/", "* /")
}
