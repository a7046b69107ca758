package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// ComposeRunner executes Compose lifecycle verbs by shelling out to
// `docker compose`. All orchestration work — image builds, container
// creation, network and volume wiring — is performed by the external
// Compose runtime; this type only constructs the invocation.
//
// os/exec is used rather than the SDK because a full `up` involves
// build orchestration, dependency ordering, and network/volume
// reconciliation that the plugin already implements; re-creating it
// over the raw API is explicitly out of scope.
type ComposeRunner struct {
	// Binary is the Docker CLI binary, normally "docker". Configurable
	// so alternative CLIs (e.g. podman with a compose shim) can be used.
	Binary string

	// ProjectDir is the working directory for the compose invocation.
	// The runtime resolves relative paths in the YAML against it.
	ProjectDir string

	// Files lists the compose file paths, merged by the runtime in
	// order with later files overriding earlier ones.
	Files []string

	// Project pins the Compose project name via -p, so container
	// discovery by label matches regardless of the directory name.
	Project string
}

// NewComposeRunner creates a runner for a project. An empty binary
// falls back to "docker".
func NewComposeRunner(binary, projectDir, project string, files []string) *ComposeRunner {
	if binary == "" {
		binary = "docker"
	}
	return &ComposeRunner{
		Binary:     binary,
		ProjectDir: projectDir,
		Files:      files,
		Project:    project,
	}
}

// Up starts the stack with "docker compose up -d". The -d flag runs
// containers detached so the CLI doesn't block on their output.
// Passing service names limits the invocation to those services.
func (r *ComposeRunner) Up(ctx context.Context, services ...string) error {
	args := r.baseArgs()
	args = append(args, "up", "-d")
	args = append(args, services...)
	return r.run(ctx, args)
}

// Stop stops the stack's containers without removing them, preserving
// container state and data for a later Up.
func (r *ComposeRunner) Stop(ctx context.Context, services ...string) error {
	args := r.baseArgs()
	args = append(args, "stop")
	args = append(args, services...)
	return r.run(ctx, args)
}

// Down stops and removes the stack's containers and networks. When
// removeVolumes is true, named and anonymous volumes are removed too,
// leaving no data behind.
func (r *ComposeRunner) Down(ctx context.Context, removeVolumes bool) error {
	args := r.baseArgs()
	args = append(args, "down")
	if removeVolumes {
		args = append(args, "-v")
	}
	return r.run(ctx, args)
}

// baseArgs constructs the common prefix: the compose subcommand, the
// pinned project name, and one -f flag per compose file.
func (r *ComposeRunner) baseArgs() []string {
	args := make([]string, 0, len(r.Files)*2+4)
	args = append(args, "compose")
	if r.Project != "" {
		args = append(args, "-p", r.Project)
	}
	for _, f := range r.Files {
		args = append(args, "-f", f)
	}
	return args
}

// run executes the compose command as a child process, capturing
// combined output for error reporting. Compose failures most commonly
// stem from daemon problems, hence ExitDockerNotRunning.
func (r *ComposeRunner) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.ProjectDir
	// os.Environ returns a copy, so the child sees the full parent
	// environment (DOCKER_HOST, COMPOSE_* overrides, PATH).
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("docker compose failed: %s", strings.TrimSpace(string(output))),
			err,
		)
	}

	return nil
}
