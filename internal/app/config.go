package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspacePath string // hcl file or directory
	// OutputDir collects every generated script in one directory. Empty
	// writes each script into its project's root.
	OutputDir string
	// Projects restricts synthesis to the named projects. Empty means every
	// native project.
	Projects []string

	LogFormat string
	LogLevel  string
	// DryRun prints the scripts instead of writing them.
	DryRun bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}
	if cfg.DryRun && cfg.OutputDir != "" {
		return nil, errors.New("OutputDir cannot be combined with DryRun")
	}
	return &cfg, nil
}
