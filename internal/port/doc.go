// Package port implements host port probing and the published-port
// preflight for the devstack CLI.
//
// A compose file declares fixed host ports, so there is nothing to
// allocate — but `up` fails late and noisily when a declared port is
// already taken. The preflight probes each published port with
// net.Listen / net.ListenPacket before handing the stack to the Compose
// runtime, so conflicts surface immediately with the owning service
// named. Ports already held by the project's own running containers are
// exempt, keeping `up` idempotent.
package port
