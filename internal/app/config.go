package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	SchemaPath string // path to an .hcl file or a directory of them
	Record     string // target record id for conversion
	InputPath  string // JSON input file; empty or "-" reads stdin
	List       bool   // list declared records instead of converting

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SchemaPath == "" {
		return nil, errors.New("SchemaPath is a required configuration field and cannot be empty")
	}
	if cfg.Record == "" && !cfg.List {
		return nil, errors.New("Record is required unless listing declared records")
	}
	return &cfg, nil
}
