// Package scaffold renders the default four-service development stack
// (api, docs, server, admin) as a compose file for `devstack init`.
//
// The stack follows the layout of the course-catalog development
// environment this tool grew out of: a uvicorn-served API built from
// the project Dockerfile, an mkdocs documentation server, an nginx
// front, and an adminer database UI on the db network.
package scaffold

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the file name `init` writes, matching the first
// entry of the compose v2 discovery order.
const DefaultFileName = "compose.yaml"

// stackFile is the YAML serialization structure for the generated
// compose file.
type stackFile struct {
	Services map[string]serviceDef  `yaml:"services"`
	Networks map[string]*networkDef `yaml:"networks"`
}

type serviceDef struct {
	Image       string            `yaml:"image,omitempty"`
	Build       *buildDef         `yaml:"build,omitempty"`
	Command     string            `yaml:"command,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Networks    []string          `yaml:"networks,omitempty"`
}

type buildDef struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// networkDef is declared for symmetry with serviceDef; the default
// stack only needs bare network declarations, which marshal as null
// bodies.
type networkDef struct {
	Driver string `yaml:"driver,omitempty"`
}

// defaultStack returns the four-service development stack definition.
//
// Network split: public carries everything a browser reaches through
// the nginx front; db carries only the database-facing services, so
// the admin UI can reach postgres without being routed past nginx.
func defaultStack() stackFile {
	return stackFile{
		Services: map[string]serviceDef{
			"api": {
				Build:    &buildDef{Context: ".", Dockerfile: "Dockerfile"},
				Command:  "uvicorn app.main:app --host 0.0.0.0 --port 8000 --reload",
				Volumes:  []string{"./src:/code/app"},
				Networks: []string{"public", "db"},
			},
			"docs": {
				Image:   "python:3.11-slim",
				Command: "mkdocs serve --dev-addr 0.0.0.0:8001",
				Volumes: []string{
					"./docs:/docs/docs",
					"./mkdocs.yml:/docs/mkdocs.yml",
				},
				Networks: []string{"public"},
			},
			"server": {
				Image:    "nginx:alpine",
				Volumes:  []string{"./nginx.conf:/etc/nginx/conf.d/default.conf:ro"},
				Networks: []string{"public"},
			},
			"admin": {
				Image:       "adminer",
				Environment: map[string]string{"ADMINER_DEFAULT_SERVER": "postgres"},
				Ports:       []string{"8080:8080"},
				Networks:    []string{"db"},
			},
		},
		Networks: map[string]*networkDef{
			"public": nil,
			"db":     nil,
		},
	}
}

// Render serializes the default stack to compose YAML with a generated
// header comment.
func Render() ([]byte, error) {
	stack := defaultStack()

	yamlBytes, err := yaml.Marshal(&stack)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize default stack: %w", err)
	}

	header := "# Generated by devstack init — the four-service development stack.\n# Edit freely; devstack validate checks the result.\n"
	return append([]byte(header), yamlBytes...), nil
}

// Write renders the default stack into path. An existing file is never
// overwritten unless force is set, protecting hand-edited stacks from
// an accidental re-init.
func Write(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := Render()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
