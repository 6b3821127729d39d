// Package config provides the project configuration shared by every command.
// It is decoupled from CLI concerns: flags and environment overrides are
// layered on top by internal/cli/config.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ProjectConfig is the contents of a benchrules.yaml file.
type ProjectConfig struct {
	// Catalogs are the catalog files to load, in order.
	Catalogs []string `koanf:"catalogs"`
	// ModelsDir is the root fetched models are written under in generated rules.
	ModelsDir string `koanf:"models_dir"`
	// IreeDir is the root imported MLIR and modules are written under in generated rules.
	IreeDir string `koanf:"iree_dir"`
	// Output is the generated file; "-" means stdout.
	Output string `koanf:"output"`
}

// Validate checks that the configuration can drive a generation.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if len(c.Catalogs) == 0 {
		errs = append(errs, errors.New("no catalogs configured\nHint: list catalog files under 'catalogs' or pass --catalogs"))
	}
	if c.ModelsDir == "" {
		errs = append(errs, errors.New("models_dir is required"))
	}
	if c.IreeDir == "" {
		errs = append(errs, errors.New("iree_dir is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	return errors.Join(errs...)
}

// ResolvePaths makes catalog and output paths absolute against root. Rule roots
// are build-relative and left untouched.
func (c *ProjectConfig) ResolvePaths(root string) {
	for i, p := range c.Catalogs {
		c.Catalogs[i] = ResolvePath(p, root)
	}
	if c.Output != StdoutOutput {
		c.Output = ResolvePath(c.Output, root)
	}
}

// ResolvePath resolves path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// String summarizes the configuration for verbose output.
func (c *ProjectConfig) String() string {
	return fmt.Sprintf("catalogs=%v models_dir=%s iree_dir=%s output=%s", c.Catalogs, c.ModelsDir, c.IreeDir, c.Output)
}
