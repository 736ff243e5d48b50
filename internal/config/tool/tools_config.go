package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	// CommandTimeout is the default execute_command timeout in seconds.
	CommandTimeout int `yaml:"commandTimeout"`
	// WorkingDir resolves relative tool paths. "~/" is expanded.
	WorkingDir string `yaml:"workingDir"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		CommandTimeout: 30,
		WorkingDir:     ".",
	}
}
