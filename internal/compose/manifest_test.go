package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadManifest_JSONC verifies that comments and trailing commas are
// stripped before parsing, since hand-written manifests commonly carry both.
func TestLoadManifest_JSONC(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "devstack.json")

	content := `{
  // the course-search development stack
  "project": "catalog-dev",
  "composeFiles": [
    "compose.yaml",
    "compose.override.yaml", // merged last
  ],
  "service": "api",
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "catalog-dev", m.Project)
	assert.Equal(t, "api", m.Service)
	assert.Equal(t, []string{"compose.yaml", "compose.override.yaml"}, m.Files())
}

func TestManifestFiles_String(t *testing.T) {
	m := &Manifest{ComposeFiles: "docker-compose.yml"}
	assert.Equal(t, []string{"docker-compose.yml"}, m.Files())
}

func TestManifestFiles_Unset(t *testing.T) {
	m := &Manifest{}
	assert.Nil(t, m.Files())
}

func TestLoadManifest_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "devstack.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json at all"), 0644))

	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestFindManifest(t *testing.T) {
	tmpDir := t.TempDir()

	// No manifest at all.
	_, found := FindManifest(tmpDir)
	assert.False(t, found)

	// Hidden variant.
	hidden := filepath.Join(tmpDir, ".devstack.json")
	require.NoError(t, os.WriteFile(hidden, []byte("{}"), 0644))
	path, found := FindManifest(tmpDir)
	require.True(t, found)
	assert.Equal(t, hidden, path)

	// The plain name takes priority over the hidden one.
	plain := filepath.Join(tmpDir, "devstack.json")
	require.NoError(t, os.WriteFile(plain, []byte("{}"), 0644))
	path, found = FindManifest(tmpDir)
	require.True(t, found)
	assert.Equal(t, plain, path)
}
