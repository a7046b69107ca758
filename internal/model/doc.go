// Package model defines the domain types and value objects for the
// devstack CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (PortBinding, Mount, ContainerInfo, StackStatus) are transient
// representations of the Compose configuration surface or of Docker API
// query results — there are no persistent state files; the compose YAML and
// the Docker daemon are the only sources of truth.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
