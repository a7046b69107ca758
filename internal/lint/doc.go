// Package lint implements well-formedness checks over a parsed compose
// stack.
//
// The checks are configuration schema checks, not behavioral ones: the
// Compose runtime owns all actual behavior, so the only verifiable
// properties of the file are of the form "the YAML parses", "every
// network a service references is declared top-level", and "bind-mount
// source paths exist on the host".
//
// Each failed check produces a Finding with a severity. Errors make
// `devstack validate` (and the preflight in `devstack up`) fail;
// warnings are printed but pass.
package lint
