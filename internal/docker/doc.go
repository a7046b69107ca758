// Package docker provides Docker Engine API wrappers and Compose
// runtime glue for the devstack CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Listing a project's containers via the Compose runtime's own
//     com.docker.compose.* labels (devstack never writes labels — the
//     runtime's labels are read as-is)
//   - Stack lifecycle delegation: up, stop, down are executed through
//     `docker compose`, because the external runtime performs all actual
//     orchestration work
//   - Per-container start/stop through the SDK for single-service ops
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
