package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll_Overlay(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "compose.yaml")
	require.NoError(t, os.WriteFile(base, []byte(`
services:
  admin:
    image: adminer
    ports: ["8080:8080"]
  server:
    image: nginx:alpine
networks:
  public:
`), 0644))

	overlay := filepath.Join(dir, "compose.override.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`
services:
  admin:
    image: adminer:4
    ports: ["9090:8080"]
networks:
  db:
`), 0644))

	stack, err := LoadAll([]string{base, overlay})
	require.NoError(t, err)

	// Whole-entry overlay: the admin service is replaced entirely.
	assert.Equal(t, []string{"admin", "server"}, stack.ServiceNames())
	assert.Equal(t, "adminer:4", stack.Services["admin"].Image)
	require.Len(t, stack.Services["admin"].Ports, 1)
	assert.Equal(t, 9090, stack.Services["admin"].Ports[0].HostPort)

	// Networks accumulate across files.
	assert.Equal(t, []string{"db", "public"}, stack.NetworkNames())

	// The merged stack keeps the base file's identity.
	assert.Equal(t, base, stack.Path)
}

func TestLoadAll_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  api:\n    image: x\n"), 0644))

	stack, err := LoadAll([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, stack.ServiceNames())
}
