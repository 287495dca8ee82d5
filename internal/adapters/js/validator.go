// Package js checks function source against the ECMAScript grammar.
package js

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/bft-labs/fndeploy/internal/domain"
)

// Validator implements ports.SyntaxValidator with the esbuild parser.
// Code is parsed with the ESNext grammar and the output is discarded;
// nothing is executed.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate parses the package code. Parse failures wrap domain.ErrSyntax.
func (v *Validator) Validate(pkg domain.Package) error {
	name := pkg.Source.Path
	if name == "" {
		name = "function.js"
	}

	result := api.Transform(pkg.Code, api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     api.ESNext,
		Sourcefile: name,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for _, m := range result.Errors {
		msgs = append(msgs, formatMessage(name, m))
	}
	return fmt.Errorf("%w: %s", domain.ErrSyntax, strings.Join(msgs, "; "))
}

func formatMessage(name string, m api.Message) string {
	if m.Location == nil {
		return fmt.Sprintf("%s: %s", name, m.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, m.Location.Line, m.Location.Column+1, m.Text)
}
