package lint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// writeStack writes compose YAML into a temp project directory and
// returns the file path. Lint resolves bind-mount sources relative to
// this directory, so tests create or omit sources as each case needs.
func writeStack(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// touch creates an empty file, including parent directories.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

// messages extracts finding messages for containment assertions.
func messages(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.String())
	}
	return out
}

// TestCheckFile_ValidStack runs the full check set against the
// four-service development stack with all bind sources present and
// expects zero findings.
func TestCheckFile_ValidStack(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Dockerfile"))
	touch(t, filepath.Join(dir, "src", "main.py"))
	touch(t, filepath.Join(dir, "docs", "index.md"))
	touch(t, filepath.Join(dir, "mkdocs.yml"))
	touch(t, filepath.Join(dir, "nginx.conf"))

	path := writeStack(t, dir, `
services:
  api:
    build:
      context: .
      dockerfile: Dockerfile
    command: uvicorn app.main:app --host 0.0.0.0 --port 8000 --reload
    volumes:
      - ./src:/code/app
    networks: [public, db]
  docs:
    image: python:3.11-slim
    command: mkdocs serve --dev-addr 0.0.0.0:8001
    volumes:
      - ./docs:/docs/docs
      - ./mkdocs.yml:/docs/mkdocs.yml
    networks: [public]
  server:
    image: nginx:alpine
    volumes:
      - ./nginx.conf:/etc/nginx/conf.d/default.conf:ro
    networks: [public]
  admin:
    image: adminer
    environment:
      ADMINER_DEFAULT_SERVER: postgres
    ports:
      - "8080:8080"
    networks: [db]
networks:
  public:
  db:
`)

	stack, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.NotNil(t, stack)
	assert.Empty(t, findings, "expected no findings, got: %v", messages(findings))
	assert.False(t, HasErrors(findings))
}

func TestCheckFile_ParseFailureIsFatalFinding(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, "services: [broken")

	stack, findings, err := CheckFile(path)
	require.NoError(t, err, "a parse failure is a finding, not an error")
	assert.Nil(t, stack)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, "(root)", findings[0].Field)
	assert.True(t, HasErrors(findings))
}

func TestCheckFile_NotFound(t *testing.T) {
	_, _, err := CheckFile(filepath.Join(t.TempDir(), "compose.yaml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitStackNotFound, cliErr.Code)
}

func TestCheck_UndeclaredNetwork(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  admin:
    image: adminer
    networks: [db]
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, "services.admin.networks", findings[0].Field)
	assert.Contains(t, findings[0].Message, `"db"`)
}

func TestCheck_UnusedNetworkWarns(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  admin:
    image: adminer
    networks: [db]
networks:
  db:
  public:
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, "networks.public", findings[0].Field)
	assert.False(t, HasErrors(findings))
}

func TestCheck_MissingBindSource(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  server:
    image: nginx:alpine
    volumes:
      - ./nginx.conf:/etc/nginx/conf.d/default.conf:ro
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, "services.server.volumes", findings[0].Field)
	assert.Contains(t, findings[0].Message, "./nginx.conf")
}

func TestCheck_UndeclaredNamedVolumeWarns(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  db:
    image: postgres:16
    volumes:
      - dbdata:/var/lib/postgresql/data
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `"dbdata"`)
}

func TestCheck_DuplicateHostPort(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  admin:
    image: adminer
    ports: ["8080:8080"]
  server:
    image: nginx:alpine
    ports: ["8080:80"]
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	// Services are checked in sorted order, so admin owns the port and
	// server carries the finding.
	assert.Equal(t, "services.server.ports", findings[0].Field)
	assert.Contains(t, findings[0].Message, "8080/tcp")
}

func TestCheck_InvalidPortEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  api:
    image: python:3.11-slim
    ports: ["eight-thousand"]
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "services.api.ports", findings[0].Field)
	assert.Contains(t, findings[0].Message, "eight-thousand")
}

func TestCheck_DuplicateContainerName(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  api:
    image: python:3.11-slim
    container_name: app
  docs:
    image: python:3.11-slim
    container_name: app
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "services.docs.container_name", findings[0].Field)
	assert.Contains(t, findings[0].Message, `"api"`)
}

func TestCheck_InvalidEnvName(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  admin:
    image: adminer
    environment:
      BAD-NAME: value
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "services.admin.environment", findings[0].Field)
	assert.Contains(t, findings[0].Message, "BAD-NAME")
}

func TestCheck_UnknownDependency(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  api:
    image: python:3.11-slim
    depends_on: [postgres]
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "services.api.depends_on", findings[0].Field)
	assert.Contains(t, findings[0].Message, `"postgres"`)
}

func TestCheck_NoImageOrBuild(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
services:
  mystery:
    command: sleep infinity
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "neither image nor build")
}

func TestCheck_ImageAndBuildWarns(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Dockerfile"))
	path := writeStack(t, dir, `
services:
  api:
    image: registry.example.com/api:dev
    build: .
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.False(t, HasErrors(findings))
}

func TestCheck_ObsoleteVersionWarns(t *testing.T) {
	dir := t.TempDir()
	path := writeStack(t, dir, `
version: "3.9"
services:
  admin:
    image: adminer
`)

	_, findings, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, "version", findings[0].Field)
}
