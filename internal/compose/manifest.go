package compose

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Manifest represents the optional devstack.json project manifest.
// The manifest pins down what Discover would otherwise guess: which
// compose file(s) make up the stack, the project name, and the primary
// service. JSONC (comments, trailing commas) is supported because
// hand-maintained tool manifests routinely carry comments.
//
// ComposeFiles uses interface{} because the field accepts both a single
// string and an array of strings, mirroring how multi-file stacks are
// declared elsewhere in the ecosystem.
type Manifest struct {
	// Project overrides the Compose project name.
	Project string `json:"project,omitempty"`

	// ComposeFiles is the compose file path(s), relative to the manifest.
	// A string or an array of strings.
	ComposeFiles interface{} `json:"composeFiles,omitempty"`

	// Service names the primary service, used as the default target for
	// single-service operations.
	Service string `json:"service,omitempty"`
}

// LoadManifest reads a devstack.json file, strips JSONC comments, and
// parses it. encoding/json silently ignores unknown fields, so manifests
// may carry extra keys for other tooling.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	// Strip // and /* */ comments plus trailing commas before parsing
	// with the standard library.
	clean := jsonc.ToJSON(data)

	var m Manifest
	if err := json.Unmarshal(clean, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return &m, nil
}

// Files normalizes the ComposeFiles field into a string slice.
// Returns nil when the manifest does not name any compose files.
func (m *Manifest) Files() []string {
	switch v := m.ComposeFiles.(type) {
	case string:
		return []string{v}
	case []interface{}:
		files := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				files = append(files, s)
			}
		}
		return files
	default:
		return nil
	}
}

// FindManifest looks for a project manifest in the standard locations:
//
//  1. <projectDir>/devstack.json
//  2. <projectDir>/.devstack.json
//
// The manifest is optional, so absence is not an error — the second
// return value reports whether a manifest was found.
func FindManifest(projectDir string) (string, bool) {
	candidates := []string{
		filepath.Join(projectDir, "devstack.json"),
		filepath.Join(projectDir, ".devstack.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
