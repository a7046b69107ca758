package model

import (
	"fmt"
	"regexp"
	"strings"
)

// StackStatus represents the aggregate runtime state of a stack, derived
// from the states of the containers the Compose runtime created for it:
//
//	absent (no containers) → running ⇄ stopped → absent (after down)
type StackStatus string

const (
	// StatusRunning indicates at least one container of the stack is running.
	StatusRunning StackStatus = "running"

	// StatusStopped indicates containers exist for the stack but none of
	// them is running. Configuration and data are preserved.
	StatusStopped StackStatus = "stopped"

	// StatusAbsent indicates the Compose runtime has no containers for the
	// stack, either because `up` was never run or after `down`.
	StatusAbsent StackStatus = "absent"
)

// String returns the string representation of StackStatus.
// This method satisfies the fmt.Stringer interface for CLI output.
func (s StackStatus) String() string {
	return string(s)
}

// IsValid checks whether the StackStatus value is one of the
// predefined valid states.
func (s StackStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusAbsent:
		return true
	default:
		return false
	}
}

// ParseStackStatus converts a string to a StackStatus.
// Returns an error if the string does not match any valid status.
func ParseStackStatus(s string) (StackStatus, error) {
	status := StackStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid stack status: %q (valid: running, stopped, absent)", s)
	}
	return status, nil
}

// PortBinding represents a single published-port declaration of a service,
// parsed from the short Compose port syntax ("8080:8080", "127.0.0.1:8080:8080",
// "8080:8080/udp", or a bare "8080" for an unpublished container port).
type PortBinding struct {
	// ServiceName is the Compose service that declares this binding.
	ServiceName string `json:"serviceName"`

	// HostIP is the host interface the port is bound to.
	// Empty means all interfaces (Docker's default, 0.0.0.0).
	HostIP string `json:"hostIp,omitempty"`

	// HostPort is the published port on the host machine.
	// Zero means the port is not published (container port only).
	HostPort int `json:"hostPort,omitempty"`

	// ContainerPort is the port number inside the container (1-65535).
	ContainerPort int `json:"containerPort"`

	// Protocol is the network protocol, "tcp" or "udp". Defaults to "tcp".
	Protocol string `json:"protocol"`
}

// Published reports whether the binding exposes a port on the host.
func (p *PortBinding) Published() bool {
	return p.HostPort > 0
}

// Validate checks whether the PortBinding has valid field values.
// It verifies port number ranges and protocol values. An unset protocol
// is normalized to "tcp", matching Docker's default.
func (p *PortBinding) Validate() error {
	if p.ServiceName == "" {
		return fmt.Errorf("port binding: service name must not be empty")
	}
	if p.ContainerPort < 1 || p.ContainerPort > 65535 {
		return fmt.Errorf("port binding: container port %d out of range (1-65535)", p.ContainerPort)
	}
	if p.HostPort < 0 || p.HostPort > 65535 {
		return fmt.Errorf("port binding: host port %d out of range (1-65535)", p.HostPort)
	}
	if p.Protocol == "" {
		p.Protocol = "tcp"
	}
	if p.Protocol != "tcp" && p.Protocol != "udp" {
		return fmt.Errorf("port binding: invalid protocol %q (valid: tcp, udp)", p.Protocol)
	}
	return nil
}

// String returns a human-readable representation of the binding.
// Published bindings render as "service: host → container/proto",
// unpublished ones as "service: container/proto".
func (p *PortBinding) String() string {
	proto := p.Protocol
	if proto == "" {
		proto = "tcp"
	}
	if !p.Published() {
		return fmt.Sprintf("%s: %d/%s", p.ServiceName, p.ContainerPort, proto)
	}
	host := ""
	if p.HostIP != "" {
		host = p.HostIP + ":"
	}
	return fmt.Sprintf("%s: %s%d → %d/%s", p.ServiceName, host, p.HostPort, p.ContainerPort, proto)
}

// ValidatePortBindings checks a slice of PortBindings for individual
// validity and for duplicate published host port/protocol pairs.
// Two services publishing the same host port cannot both be started by
// the Compose runtime, so a duplicate is a configuration error.
func ValidatePortBindings(bindings []PortBinding) error {
	// Key: "hostPort/protocol", Value: service name that owns it.
	// Different protocols on the same port are allowed (8080/tcp and 8080/udp).
	seen := make(map[string]string)

	for i := range bindings {
		if err := bindings[i].Validate(); err != nil {
			return err
		}
		if !bindings[i].Published() {
			continue
		}

		key := fmt.Sprintf("%d/%s", bindings[i].HostPort, bindings[i].Protocol)
		if existing, exists := seen[key]; exists && existing != bindings[i].ServiceName {
			return fmt.Errorf("port binding: host port %s is published by both %q and %q",
				key, existing, bindings[i].ServiceName)
		}
		seen[key] = bindings[i].ServiceName
	}
	return nil
}

// MountType distinguishes the two short-syntax volume forms a service
// can declare.
type MountType string

const (
	// MountBind is a host path mounted into the container
	// (source looks like a filesystem path: ./src, ../x, /abs, ~/x).
	MountBind MountType = "bind"

	// MountVolume is a named volume managed by the Docker runtime.
	MountVolume MountType = "volume"
)

// Mount represents a single volume declaration of a service, parsed from
// the short Compose syntax "source:target[:mode]".
type Mount struct {
	// Type is bind for host paths and volume for named volumes.
	Type MountType `json:"type"`

	// Source is the host path (bind) or volume name (volume).
	Source string `json:"source"`

	// Target is the mount path inside the container.
	Target string `json:"target"`

	// Mode is the access mode, "rw" (default) or "ro".
	Mode string `json:"mode"`
}

// String returns the short-syntax representation of the mount.
func (m *Mount) String() string {
	if m.Mode != "" && m.Mode != "rw" {
		return fmt.Sprintf("%s:%s:%s", m.Source, m.Target, m.Mode)
	}
	return fmt.Sprintf("%s:%s", m.Source, m.Target)
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// ServiceName is the Compose service the container belongs to,
	// taken from the com.docker.compose.service label.
	ServiceName string `json:"serviceName,omitempty"`

	// Status is the Docker container state (e.g., "running", "exited").
	Status string `json:"status"`

	// Labels is the full set of Docker labels on the container,
	// including the Compose runtime's com.docker.compose.* labels.
	Labels map[string]string `json:"labels,omitempty"`
}

// envNameRegex validates environment variable names: POSIX shell names,
// a letter or underscore followed by letters, digits, and underscores.
var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateEnvName checks whether the given string is a valid environment
// variable name as accepted by the Compose runtime.
func ValidateEnvName(name string) error {
	if name == "" {
		return fmt.Errorf("environment variable name must not be empty")
	}
	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment variable name %q: must match [A-Za-z_][A-Za-z0-9_]*", name)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitStackNotFound indicates no compose file was found in the
	// expected locations.
	ExitStackNotFound ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitValidationFailed indicates the compose file failed one or more
	// well-formedness checks.
	ExitValidationFailed ExitCode = 4

	// ExitPortConflict indicates a published host port is already in use.
	ExitPortConflict ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
