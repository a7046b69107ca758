// Package compose handles parsing and analysis of Docker Compose files
// for the devstack CLI.
//
// The package turns the declarative YAML surface (services, networks,
// volumes, port mappings, commands, environment) into a typed Stack model
// that the rest of the application consumes. Parsing is deliberately
// lenient: entries that do not fit the short syntax are collected on the
// service (InvalidPorts, InvalidMounts) so the lint package can report
// them all at once instead of failing on the first.
//
// Key responsibilities:
//   - Parse compose YAML with gopkg.in/yaml.v3 (string and list command
//     forms, map and list environment forms, short port/volume syntax)
//   - Locate the compose file using the compose v2 search order
//   - Load the optional devstack.json project manifest (JSONC supported
//     via github.com/tidwall/jsonc)
package compose
