// Package cli — stack.go implements stack resolution shared by the
// subcommands that operate on an existing compose file.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/devstack/internal/compose"
	"github.com/mmr-tortoise/devstack/internal/model"
)

// stackRef identifies a resolved stack: the compose file(s) that define
// it, the directory relative paths resolve against, and the Compose
// project name used for container discovery.
type stackRef struct {
	Files      []string
	ProjectDir string
	Project    string
}

// resolveStack determines which compose file(s) the command targets.
//
// Resolution order:
//
//  1. --file flag, used as-is
//  2. devstack.json / .devstack.json manifest in the current directory
//  3. standard compose file names (compose.yaml first) in the current
//     directory
//
// The project name comes from the manifest when it sets one, otherwise
// from the project directory name, normalized the way the Compose
// runtime normalizes it so label-based discovery matches.
func resolveStack() (*stackRef, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			"failed to determine working directory", err)
	}

	// 1. Explicit --file wins.
	if stackFilePath != "" {
		absPath, err := filepath.Abs(stackFilePath)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid --file path %q", stackFilePath), err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return nil, model.NewCLIError(model.ExitStackNotFound,
				fmt.Sprintf("compose file %s not found", absPath))
		}

		dir := filepath.Dir(absPath)
		return &stackRef{
			Files:      []string{absPath},
			ProjectDir: dir,
			Project:    compose.ProjectNameFromPath(absPath),
		}, nil
	}

	// 2. Project manifest, when present.
	if manifestPath, ok := compose.FindManifest(cwd); ok {
		log.Debug().Str("manifest", manifestPath).Msg("using project manifest")

		manifest, err := compose.LoadManifest(manifestPath)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				"failed to load project manifest", err)
		}

		files := manifest.Files()
		if len(files) == 0 {
			// Manifest without composeFiles still pins the project name;
			// fall through to standard discovery for the file itself.
			discovered, err := compose.Discover(cwd)
			if err != nil {
				return nil, err
			}
			files = []string{discovered}
		} else {
			// Manifest paths are relative to the manifest location.
			for i, f := range files {
				if !filepath.IsAbs(f) {
					files[i] = filepath.Join(cwd, f)
				}
				if _, err := os.Stat(files[i]); err != nil {
					return nil, model.NewCLIError(model.ExitStackNotFound,
						fmt.Sprintf("compose file %s (from manifest) not found", files[i]))
				}
			}
		}

		project := manifest.Project
		if project == "" {
			project = compose.ProjectNameFromPath(files[0])
		}

		return &stackRef{
			Files:      files,
			ProjectDir: cwd,
			Project:    compose.NormalizeProjectName(project),
		}, nil
	}

	// 3. Standard compose file discovery.
	discovered, err := compose.Discover(cwd)
	if err != nil {
		return nil, err // Discover already returns CLIError with ExitStackNotFound
	}

	return &stackRef{
		Files:      []string{discovered},
		ProjectDir: cwd,
		Project:    compose.ProjectNameFromPath(discovered),
	}, nil
}

// loadResolvedStack resolves the stack and parses its compose file(s)
// into the merged in-process view.
func loadResolvedStack() (*stackRef, *compose.Stack, error) {
	ref, err := resolveStack()
	if err != nil {
		return nil, nil, err
	}

	stack, err := compose.LoadAll(ref.Files)
	if err != nil {
		return nil, nil, err
	}
	stack.Name = ref.Project

	return ref, stack, nil
}
