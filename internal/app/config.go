package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// GridPath is a .hcl file or a directory of .hcl files.
	GridPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// Output selects the report rendering: "text" or "yaml".
	Output string
}

// NewConfig validates a config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		cfg.Output = "text"
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
