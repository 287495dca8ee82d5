package ports

import "github.com/bft-labs/fndeploy/internal/domain"

// ArtifactLoader reads the function source.
type ArtifactLoader interface {
	// Load returns the artifact at path. Errors wrap domain.ErrIO.
	Load(path string) (domain.SourceArtifact, error)
}

// SyntaxValidator checks that packaged code parses.
type SyntaxValidator interface {
	// Validate returns an error wrapping domain.ErrSyntax when the code
	// does not parse. It never executes the code.
	Validate(pkg domain.Package) error
}
