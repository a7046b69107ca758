package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// Stack is the typed representation of a parsed compose file.
// It is the primary aggregate entity in the domain: every command
// (validate, config, up, ports) operates on a Stack.
type Stack struct {
	// Name is the Compose project name. Taken from the top-level `name`
	// field when present, otherwise derived from the directory containing
	// the compose file (see ProjectName).
	Name string `json:"name"`

	// Path is the absolute path to the compose file this stack was
	// parsed from. Empty when the stack was parsed from raw bytes.
	Path string `json:"path,omitempty"`

	// Version is the obsolete top-level `version` field, kept only so
	// lint can warn about its presence.
	Version string `json:"version,omitempty"`

	// Services maps service names to their parsed definitions.
	Services map[string]*Service `json:"services"`

	// Networks holds the top-level network declarations.
	Networks map[string]Network `json:"networks,omitempty"`

	// Volumes holds the top-level named volume declarations.
	Volumes map[string]Volume `json:"volumes,omitempty"`
}

// Service is a single service definition within a Stack.
type Service struct {
	// Name is the service's key in the top-level services map.
	Name string `json:"name"`

	// Image is the container image reference, if the service runs a
	// pre-built image.
	Image string `json:"image,omitempty"`

	// Build is the build configuration, if the service builds its image
	// from a Dockerfile.
	Build *BuildConfig `json:"build,omitempty"`

	// Command is the startup command override in display form. List-form
	// commands are joined with spaces; string-form commands are kept as-is.
	Command string `json:"command,omitempty"`

	// ContainerName is the explicit container name, if declared.
	ContainerName string `json:"containerName,omitempty"`

	// Ports holds the successfully parsed port declarations.
	Ports []model.PortBinding `json:"ports,omitempty"`

	// InvalidPorts holds port entries that did not parse as short syntax.
	// Reported by the lint package.
	InvalidPorts []string `json:"invalidPorts,omitempty"`

	// Mounts holds the successfully parsed volume declarations.
	Mounts []model.Mount `json:"mounts,omitempty"`

	// InvalidMounts holds volume entries that did not parse as short syntax.
	InvalidMounts []string `json:"invalidMounts,omitempty"`

	// Networks lists the networks this service is attached to.
	Networks []string `json:"networks,omitempty"`

	// Environment holds the service's environment variables. Both the
	// map form and the "KEY=value" list form normalize into this map.
	Environment map[string]string `json:"environment,omitempty"`

	// DependsOn lists the services this service depends on. Both the
	// list form and the long map form (with conditions) normalize into
	// a sorted name list.
	DependsOn []string `json:"dependsOn,omitempty"`
}

// BuildConfig holds a service's image build configuration.
// The compose short form (`build: .`) normalizes into Context.
type BuildConfig struct {
	// Context is the build context path, relative to the compose file.
	Context string `json:"context,omitempty"`

	// Dockerfile is the Dockerfile path relative to the context.
	Dockerfile string `json:"dockerfile,omitempty"`

	// Args are build-time variables passed to the Dockerfile.
	Args map[string]string `json:"args,omitempty"`
}

// Network is a top-level network declaration.
type Network struct {
	// Driver is the network driver ("bridge" when empty).
	Driver string `json:"driver,omitempty"`

	// External marks networks created outside this compose file.
	External bool `json:"external,omitempty"`
}

// Volume is a top-level named volume declaration.
type Volume struct {
	// Driver is the volume driver ("local" when empty).
	Driver string `json:"driver,omitempty"`

	// External marks volumes created outside this compose file.
	External bool `json:"external,omitempty"`
}

// ServiceNames returns the stack's service names in sorted order.
// Go map iteration order is randomized, so every output path sorts.
func (s *Stack) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for name := range s.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NetworkNames returns the stack's declared network names in sorted order.
func (s *Stack) NetworkNames() []string {
	names := make([]string, 0, len(s.Networks))
	for name := range s.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PortBindings returns every port declaration in the stack, ordered by
// service name and container port. This is the input for both the lint
// duplicate check and the pre-up port conflict probe.
func (s *Stack) PortBindings() []model.PortBinding {
	var bindings []model.PortBinding
	for _, name := range s.ServiceNames() {
		svc := s.Services[name]
		bindings = append(bindings, svc.Ports...)
	}
	return bindings
}

// rawStack mirrors the YAML document structure. Fields that the compose
// specification allows in multiple shapes use interface{} and are
// normalized in Parse. Unknown fields are silently ignored, matching the
// behavior of parsing only the subset this tool cares about.
type rawStack struct {
	Version  string                 `yaml:"version"`
	Name     string                 `yaml:"name"`
	Services map[string]rawService  `yaml:"services"`
	Networks map[string]*rawNetwork `yaml:"networks"`
	Volumes  map[string]*rawVolume  `yaml:"volumes"`
}

type rawService struct {
	Image         string        `yaml:"image"`
	Build         interface{}   `yaml:"build"`
	Command       interface{}   `yaml:"command"`
	ContainerName string        `yaml:"container_name"`
	Ports         []interface{} `yaml:"ports"`
	Volumes       []interface{} `yaml:"volumes"`
	Networks      []string      `yaml:"networks"`
	Environment   interface{}   `yaml:"environment"`
	DependsOn     interface{}   `yaml:"depends_on"`
}

type rawNetwork struct {
	Driver   string `yaml:"driver"`
	External bool   `yaml:"external"`
}

type rawVolume struct {
	Driver   string `yaml:"driver"`
	External bool   `yaml:"external"`
}

// Parse decodes compose YAML into a Stack. The path parameter is recorded
// on the Stack and used only for project-name derivation and messages;
// it may be empty when parsing in-memory data.
//
// A YAML syntax error or an empty services map is returned as an error.
// Per-entry problems (a malformed port string, an unknown mount mode) do
// NOT fail the parse; they are collected on the service for lint to report.
func Parse(data []byte, path string) (*Stack, error) {
	var raw rawStack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid compose YAML: %w", err)
	}

	if len(raw.Services) == 0 {
		return nil, fmt.Errorf("compose file declares no services")
	}

	stack := &Stack{
		Name:     raw.Name,
		Path:     path,
		Version:  raw.Version,
		Services: make(map[string]*Service, len(raw.Services)),
	}

	if stack.Name == "" && path != "" {
		stack.Name = ProjectNameFromPath(path)
	}

	for name, rs := range raw.Services {
		stack.Services[name] = buildService(name, rs)
	}

	if len(raw.Networks) > 0 {
		stack.Networks = make(map[string]Network, len(raw.Networks))
		for name, rn := range raw.Networks {
			// A bare `public:` key parses as a nil body, which still
			// declares the network.
			if rn == nil {
				stack.Networks[name] = Network{}
				continue
			}
			stack.Networks[name] = Network{Driver: rn.Driver, External: rn.External}
		}
	}

	if len(raw.Volumes) > 0 {
		stack.Volumes = make(map[string]Volume, len(raw.Volumes))
		for name, rv := range raw.Volumes {
			if rv == nil {
				stack.Volumes[name] = Volume{}
				continue
			}
			stack.Volumes[name] = Volume{Driver: rv.Driver, External: rv.External}
		}
	}

	return stack, nil
}

// Load reads and parses a compose file from disk.
// Returns a CLIError with ExitStackNotFound if the file does not exist.
func Load(path string) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitStackNotFound,
				fmt.Sprintf("compose file not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Parse(data, abs)
}

// buildService normalizes one raw service definition.
func buildService(name string, rs rawService) *Service {
	svc := &Service{
		Name:          name,
		Image:         rs.Image,
		Build:         parseBuild(rs.Build),
		Command:       normalizeCommand(rs.Command),
		ContainerName: rs.ContainerName,
		Networks:      rs.Networks,
		Environment:   normalizeEnvironment(rs.Environment),
		DependsOn:     normalizeDependsOn(rs.DependsOn),
	}

	for _, entry := range rs.Ports {
		s, ok := scalarString(entry)
		if !ok {
			svc.InvalidPorts = append(svc.InvalidPorts, fmt.Sprintf("%v", entry))
			continue
		}
		pb, err := ParsePort(s, name)
		if err != nil {
			svc.InvalidPorts = append(svc.InvalidPorts, s)
			continue
		}
		svc.Ports = append(svc.Ports, *pb)
	}

	for _, entry := range rs.Volumes {
		s, ok := scalarString(entry)
		if !ok {
			svc.InvalidMounts = append(svc.InvalidMounts, fmt.Sprintf("%v", entry))
			continue
		}
		m, err := ParseMount(s)
		if err != nil {
			svc.InvalidMounts = append(svc.InvalidMounts, s)
			continue
		}
		svc.Mounts = append(svc.Mounts, *m)
	}

	return svc
}

// parseBuild handles both build forms: a bare context string
// (`build: .`) and the map form with context/dockerfile/args.
func parseBuild(v interface{}) *BuildConfig {
	switch b := v.(type) {
	case nil:
		return nil
	case string:
		return &BuildConfig{Context: b}
	case map[string]interface{}:
		cfg := &BuildConfig{}
		if s, ok := b["context"].(string); ok {
			cfg.Context = s
		}
		if s, ok := b["dockerfile"].(string); ok {
			cfg.Dockerfile = s
		}
		if args, ok := b["args"].(map[string]interface{}); ok {
			cfg.Args = make(map[string]string, len(args))
			for k, av := range args {
				if s, ok := scalarString(av); ok {
					cfg.Args[k] = s
				}
			}
		}
		return cfg
	default:
		return nil
	}
}

// normalizeCommand converts the string-or-list command field into a
// single display string. The exec-form list joins with spaces; quoting
// is not reconstructed because the value is informational only — the
// Compose runtime receives the original YAML, not this rendering.
func normalizeCommand(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []interface{}:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			if s, ok := scalarString(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// normalizeEnvironment converts both environment forms into a map.
// The list form supports "KEY=value" and bare "KEY" (value inherited
// from the host at runtime, recorded here as empty).
func normalizeEnvironment(v interface{}) map[string]string {
	switch e := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		env := make(map[string]string, len(e))
		for k, ev := range e {
			s, _ := scalarString(ev)
			env[k] = s
		}
		return env
	case []interface{}:
		env := make(map[string]string, len(e))
		for _, item := range e {
			s, ok := scalarString(item)
			if !ok {
				continue
			}
			key, value, found := strings.Cut(s, "=")
			if !found {
				env[key] = ""
				continue
			}
			env[key] = value
		}
		return env
	default:
		return nil
	}
}

// normalizeDependsOn converts both depends_on forms into a sorted name
// list. The long map form's conditions are dropped — this tool only needs
// the dependency edges for reference checking.
func normalizeDependsOn(v interface{}) []string {
	switch d := v.(type) {
	case nil:
		return nil
	case []interface{}:
		deps := make([]string, 0, len(d))
		for _, item := range d {
			if s, ok := scalarString(item); ok {
				deps = append(deps, s)
			}
		}
		sort.Strings(deps)
		return deps
	case map[string]interface{}:
		deps := make([]string, 0, len(d))
		for name := range d {
			deps = append(deps, name)
		}
		sort.Strings(deps)
		return deps
	default:
		return nil
	}
}

// scalarString converts a YAML scalar decoded into interface{} to its
// string form. Numbers and booleans are rendered with strconv/fmt so a
// port written as a bare integer still parses.
func scalarString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// ParsePort parses a short-syntax port entry into a PortBinding.
//
// Accepted forms:
//
//	"8000"                → container port only (unpublished)
//	"8080:8080"           → hostPort:containerPort
//	"127.0.0.1:8080:8080" → hostIP:hostPort:containerPort
//	"8080:8080/udp"       → any of the above with a protocol suffix
//
// Port ranges ("8000-8010:8000-8010") and the long map syntax are not
// supported and return an error.
func ParsePort(s string, serviceName string) (*model.PortBinding, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return nil, fmt.Errorf("empty port entry")
	}

	protocol := "tcp"
	if base, proto, found := strings.Cut(spec, "/"); found {
		proto = strings.ToLower(proto)
		if proto != "tcp" && proto != "udp" {
			return nil, fmt.Errorf("invalid protocol %q in port entry %q", proto, s)
		}
		protocol = proto
		spec = base
	}

	if strings.Contains(spec, "-") {
		return nil, fmt.Errorf("port ranges are not supported: %q", s)
	}

	parts := strings.Split(spec, ":")
	pb := &model.PortBinding{ServiceName: serviceName, Protocol: protocol}

	switch len(parts) {
	case 1:
		containerPort, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid container port in %q: %w", s, err)
		}
		pb.ContainerPort = containerPort
	case 2:
		hostPort, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid host port in %q: %w", s, err)
		}
		containerPort, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid container port in %q: %w", s, err)
		}
		pb.HostPort = hostPort
		pb.ContainerPort = containerPort
	case 3:
		hostPort, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid host port in %q: %w", s, err)
		}
		containerPort, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid container port in %q: %w", s, err)
		}
		pb.HostIP = parts[0]
		pb.HostPort = hostPort
		pb.ContainerPort = containerPort
	default:
		return nil, fmt.Errorf("invalid port entry %q", s)
	}

	if err := pb.Validate(); err != nil {
		return nil, err
	}
	return pb, nil
}

// ParseMount parses a short-syntax volume entry "source:target[:mode]"
// into a Mount. Sources that look like filesystem paths become bind
// mounts; everything else is treated as a named volume reference.
func ParseMount(s string) (*model.Mount, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return nil, fmt.Errorf("empty volume entry")
	}

	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid volume entry %q (want source:target[:mode])", s)
	}

	mode := "rw"
	if len(parts) == 3 {
		mode = parts[2]
		if mode != "rw" && mode != "ro" {
			return nil, fmt.Errorf("invalid volume mode %q in %q (valid: rw, ro)", mode, s)
		}
	}

	source, target := parts[0], parts[1]
	if source == "" || target == "" {
		return nil, fmt.Errorf("invalid volume entry %q: source and target must not be empty", s)
	}

	mountType := model.MountVolume
	if isPathSource(source) {
		mountType = model.MountBind
	}

	return &model.Mount{Type: mountType, Source: source, Target: target, Mode: mode}, nil
}

// isPathSource reports whether a volume source is a host path rather
// than a named volume. The compose runtime uses the same prefix rule.
func isPathSource(source string) bool {
	return strings.HasPrefix(source, "./") ||
		strings.HasPrefix(source, "../") ||
		strings.HasPrefix(source, "/") ||
		strings.HasPrefix(source, "~")
}

// ProjectNameFromPath derives a Compose project name from the directory
// containing the compose file, normalized the way the Compose runtime
// normalizes project names.
func ProjectNameFromPath(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	return NormalizeProjectName(dir)
}

// NormalizeProjectName lowercases the name and strips characters outside
// [a-z0-9_-], matching the Compose runtime's project name constraints.
// Leading separators are trimmed; an empty result falls back to "default".
func NormalizeProjectName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	normalized := strings.TrimLeft(b.String(), "-_")
	if normalized == "" {
		return "default"
	}
	return normalized
}
