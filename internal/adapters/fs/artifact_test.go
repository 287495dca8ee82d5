package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fndeploy/internal/domain"
)

func TestArtifactLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.js")
	content := "async function onTrack(event, settings) {\n  console.log('event', event);\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	artifact, err := NewArtifactLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, path, artifact.Path)
	assert.Equal(t, content, artifact.Content)
}

func TestArtifactLoader_MissingFile(t *testing.T) {
	_, err := NewArtifactLoader().Load(filepath.Join(t.TempDir(), "missing.js"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArtifactLoader_Directory(t *testing.T) {
	_, err := NewArtifactLoader().Load(t.TempDir())

	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestArtifactLoader_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.js")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644))

	_, err := NewArtifactLoader().Load(path)

	assert.ErrorIs(t, err, domain.ErrIO)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}
