package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/devstack/internal/model"
)

// DefaultFileNames lists the compose file names probed by Discover,
// in priority order. This matches the compose v2 search order: the
// canonical compose.yaml first, the legacy docker-compose names last.
var DefaultFileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// Discover searches a project directory for a compose file using the
// standard name candidates and returns the absolute path of the first
// one that exists.
//
// Returns a CLIError with ExitStackNotFound if none of the candidates
// is present.
func Discover(projectDir string) (string, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(projectDir, name)
		// os.Stat checks existence without reading contents.
		if _, err := os.Stat(path); err == nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				return path, nil
			}
			return abs, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitStackNotFound,
		fmt.Sprintf("no compose file found in %s (searched %s)",
			projectDir, strings.Join(DefaultFileNames, ", ")),
	)
}
