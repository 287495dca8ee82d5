package fs

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/bft-labs/fndeploy/internal/domain"
)

// ArtifactLoader implements ports.ArtifactLoader on the local file system.
type ArtifactLoader struct{}

// NewArtifactLoader creates a new ArtifactLoader.
func NewArtifactLoader() *ArtifactLoader {
	return &ArtifactLoader{}
}

// Load reads the file at path as UTF-8 text.
// Any failure is wrapped with domain.ErrIO.
func (l *ArtifactLoader) Load(path string) (domain.SourceArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceArtifact{}, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if !utf8.Valid(data) {
		return domain.SourceArtifact{}, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrIO, path)
	}
	return domain.SourceArtifact{Path: path, Content: string(data)}, nil
}
