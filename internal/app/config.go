package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // hcl pipeline file

	// Direct mode, used when no pipeline file is given.
	InputPath    string
	OutputPath   string
	OutputFormat string
	Sep          string
	Tolerant     bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" && cfg.InputPath == "" {
		return nil, errors.New("either a pipeline file or an input path is required")
	}
	if cfg.PipelinePath != "" && cfg.InputPath != "" {
		return nil, errors.New("a pipeline file and direct input flags are mutually exclusive")
	}

	return &cfg, nil
}
