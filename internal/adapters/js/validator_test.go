package js

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fndeploy/internal/adapters/fs"
	"github.com/bft-labs/fndeploy/internal/domain"
)

func pkgOf(code string) domain.Package {
	return domain.BuildPackage(domain.SourceArtifact{Path: "src/index.js", Content: code}, "42", time.Unix(0, 0))
}

func TestValidator_Valid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"simple function", "function foo() { return 1 }"},
		{"track handler", "function onTrack(event, settings) {\n  console.log('setting keys', Object.keys(settings));\n  console.log('event', event);\n}"},
		{"object literal", "var settings = { apiKey: 'x', nested: { list: [1, 2, 3] } };"},
		{"try catch", "try { module.exports = { onTrack: onTrack } } catch (e) {}"},
		{"empty", ""},
		{"comment only", "// nothing to see"},
		{"regexp literal", "var re = /ab+c/i; re.test('abbc');"},
		{"string with brace", "var s = '{';"},
		{"async handler", "async function onTrack(event, settings) {\n  const res = await fetch(settings.url);\n  return res.json();\n}"},
		{"optional chaining", "const env = process?.env?.NODE_ENV;"},
		{"nullish coalescing", "const v = a ?? b;"},
		{"logical assignment", "a ||= 1; b &&= 2; c ??= 3;"},
		{"numeric separators", "var n = 1_000_000;"},
		{"bigint literal", "var x = 10n;"},
		{"for await", "async function drain(xs) {\n  for await (const x of xs) { console.log(x); }\n}"},
		{"async generator", "async function* g() { yield 1; }"},
		{"private fields", "class A { #x = 1; get() { return this.#x; } }"},
		{"static block", "class B { static { B.ready = true; } }"},
		{"template literal", "const msg = `failed with ${status}`;"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(pkgOf(tt.src)))
		})
	}
}

func TestValidator_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unbalanced braces", "function foo( {"},
		{"missing close brace", "function foo() { return 1"},
		{"illegal token", "var x = @;"},
		{"unterminated string", "var s = 'abc;"},
		{"stray closing brace", "}"},
		{"keyword as name", "var if = 1;"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(pkgOf(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSyntax)
		})
	}
}

func TestValidator_ReportsSourcePath(t *testing.T) {
	err := NewValidator().Validate(pkgOf("function foo( {"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/index.js")
}

func TestValidator_SampleFunction(t *testing.T) {
	artifact, err := fs.NewArtifactLoader().Load("../../../function/src/index.js")
	require.NoError(t, err)

	pkg := domain.BuildPackage(artifact, "deploy", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, NewValidator().Validate(pkg))
}
