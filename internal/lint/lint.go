package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmr-tortoise/devstack/internal/compose"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks a finding that makes the stack unusable or
	// ambiguous for the Compose runtime. Errors fail validation.
	SeverityError Severity = "error"

	// SeverityWarning marks a finding the runtime would tolerate but
	// that usually indicates a mistake. Warnings do not fail validation.
	SeverityWarning Severity = "warning"
)

// Finding represents a single failed check.
type Finding struct {
	// Severity is error or warning.
	Severity Severity `json:"severity"`

	// Field is the configuration path the finding refers to
	// (e.g., "services.api.networks").
	Field string `json:"field"`

	// Message describes what is wrong with the field value.
	Message string `json:"message"`
}

// String renders the finding for text output.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Field, f.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CheckFile reads, parses, and checks a compose file.
//
// IO failures (including file-not-found) are returned as an error so the
// CLI can map them to their own exit codes. A YAML parse failure is NOT
// an error here — it is the single fatal finding, since "the file parses
// as valid Compose YAML" is itself one of the checked properties.
func CheckFile(path string) (*compose.Stack, []Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, model.WrapCLIError(
				model.ExitStackNotFound,
				fmt.Sprintf("compose file not found: %s", path),
				err,
			)
		}
		return nil, nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	stack, parseErr := compose.Parse(data, abs)
	if parseErr != nil {
		return nil, []Finding{{
			Severity: SeverityError,
			Field:    "(root)",
			Message:  parseErr.Error(),
		}}, nil
	}

	return stack, Check(stack), nil
}

// Check runs every well-formedness check against a parsed stack and
// returns the complete finding list (empty = fully valid). Findings are
// ordered by service name so output is deterministic.
func Check(stack *compose.Stack) []Finding {
	var findings []Finding

	if stack.Version != "" {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Field:    "version",
			Message:  "the top-level version field is obsolete and ignored by the Compose runtime",
		})
	}

	referencedNetworks := make(map[string]bool)
	containerNames := make(map[string]string)
	portOwners := make(map[string]string)

	for _, name := range stack.ServiceNames() {
		svc := stack.Services[name]
		field := "services." + name

		findings = append(findings, checkImageSource(svc, field)...)
		findings = append(findings, checkNetworks(svc, stack, field, referencedNetworks)...)
		findings = append(findings, checkPorts(svc, field, portOwners)...)
		findings = append(findings, checkMounts(svc, stack, field)...)
		findings = append(findings, checkEnvironment(svc, field)...)
		findings = append(findings, checkDependsOn(svc, stack, field)...)

		if svc.ContainerName != "" {
			if other, dup := containerNames[svc.ContainerName]; dup {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Field:    field + ".container_name",
					Message: fmt.Sprintf("container name %q is also used by service %q",
						svc.ContainerName, other),
				})
			} else {
				containerNames[svc.ContainerName] = name
			}
		}
	}

	// Declared-but-unused networks are harmless but usually leftovers.
	for _, network := range stack.NetworkNames() {
		if !referencedNetworks[network] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Field:    "networks." + network,
				Message:  "network is declared but no service references it",
			})
		}
	}

	return findings
}

// checkImageSource verifies that the service has exactly one way to
// obtain its image.
func checkImageSource(svc *compose.Service, field string) []Finding {
	var findings []Finding

	if svc.Image == "" && svc.Build == nil {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Field:    field,
			Message:  "service declares neither image nor build",
		})
	}
	if svc.Image != "" && svc.Build != nil {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Field:    field,
			Message:  "service declares both image and build; the runtime builds and tags the image",
		})
	}

	return findings
}

// checkNetworks verifies that every network the service references is
// declared top-level, and records references for the unused-network check.
func checkNetworks(svc *compose.Service, stack *compose.Stack, field string, referenced map[string]bool) []Finding {
	var findings []Finding

	for _, network := range svc.Networks {
		referenced[network] = true
		if _, declared := stack.Networks[network]; !declared {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Field:    field + ".networks",
				Message:  fmt.Sprintf("network %q is not declared in the top-level networks block", network),
			})
		}
	}

	return findings
}

// checkPorts reports unparseable port entries and duplicate published
// host port/protocol pairs across services.
func checkPorts(svc *compose.Service, field string, portOwners map[string]string) []Finding {
	var findings []Finding

	for _, bad := range svc.InvalidPorts {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Field:    field + ".ports",
			Message:  fmt.Sprintf("invalid port entry %q (want [ip:][host:]container[/protocol])", bad),
		})
	}

	for _, pb := range svc.Ports {
		if !pb.Published() {
			continue
		}
		key := fmt.Sprintf("%d/%s", pb.HostPort, pb.Protocol)
		if owner, dup := portOwners[key]; dup && owner != svc.Name {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Field:    field + ".ports",
				Message:  fmt.Sprintf("host port %s is also published by service %q", key, owner),
			})
			continue
		}
		portOwners[key] = svc.Name
	}

	return findings
}

// checkMounts reports unparseable volume entries, bind-mount sources
// missing on the host, and named volumes missing from the top-level
// volumes block.
func checkMounts(svc *compose.Service, stack *compose.Stack, field string) []Finding {
	var findings []Finding

	for _, bad := range svc.InvalidMounts {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Field:    field + ".volumes",
			Message:  fmt.Sprintf("invalid volume entry %q (want source:target[:mode])", bad),
		})
	}

	for _, m := range svc.Mounts {
		switch m.Type {
		case model.MountBind:
			// Sources resolve relative to the compose file. Without a
			// file path (in-memory parse) there is nothing to resolve
			// against, so the existence check is skipped.
			if stack.Path == "" {
				continue
			}
			source, ok := resolveBindSource(m.Source, filepath.Dir(stack.Path))
			if !ok {
				continue
			}
			if _, err := os.Stat(source); os.IsNotExist(err) {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Field:    field + ".volumes",
					Message:  fmt.Sprintf("bind mount source %q does not exist on the host", m.Source),
				})
			}
		case model.MountVolume:
			if _, declared := stack.Volumes[m.Source]; !declared {
				findings = append(findings, Finding{
					Severity: SeverityWarning,
					Field:    field + ".volumes",
					Message:  fmt.Sprintf("named volume %q is not declared in the top-level volumes block", m.Source),
				})
			}
		}
	}

	return findings
}

// resolveBindSource turns a bind-mount source into an absolute host path.
// The second return value is false when the path cannot be resolved
// (e.g., a ~ prefix with no resolvable home directory), in which case
// the existence check is skipped rather than guessed.
func resolveBindSource(source, baseDir string) (string, bool) {
	if strings.HasPrefix(source, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, strings.TrimPrefix(source, "~")), true
	}
	if filepath.IsAbs(source) {
		return source, true
	}
	return filepath.Join(baseDir, source), true
}

// checkEnvironment validates environment variable names.
func checkEnvironment(svc *compose.Service, field string) []Finding {
	var findings []Finding

	// Sort keys so repeated runs produce identical output.
	keys := make([]string, 0, len(svc.Environment))
	for k := range svc.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := model.ValidateEnvName(k); err != nil {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Field:    field + ".environment",
				Message:  err.Error(),
			})
		}
	}

	return findings
}

// checkDependsOn verifies that every dependency names a declared service.
func checkDependsOn(svc *compose.Service, stack *compose.Stack, field string) []Finding {
	var findings []Finding

	for _, dep := range svc.DependsOn {
		if _, declared := stack.Services[dep]; !declared {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Field:    field + ".depends_on",
				Message:  fmt.Sprintf("depends_on references unknown service %q", dep),
			})
		}
	}

	return findings
}
