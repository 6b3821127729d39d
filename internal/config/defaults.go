package config

// Default configuration values.
const (
	DefaultModelsDir = "models"
	DefaultIreeDir   = "iree"
	DefaultOutput    = StdoutOutput

	// StdoutOutput selects standard output instead of a file.
	StdoutOutput = "-"
)

// Defaults returns the default values keyed like the config file.
func Defaults() map[string]any {
	return map[string]any{
		"catalogs":   []string{},
		"models_dir": DefaultModelsDir,
		"iree_dir":   DefaultIreeDir,
		"output":     DefaultOutput,
	}
}

// ApplyDefaults fills unset values.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.IreeDir == "" {
		c.IreeDir = DefaultIreeDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
