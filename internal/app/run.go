package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vk/recast/internal/ctxlog"
	"github.com/vk/recast/internal/descriptor"
)

// Run executes the main application logic for the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.List {
		for _, id := range a.registry.Records() {
			fmt.Fprintln(a.outW, id)
		}
		return nil
	}

	raw, err := a.readInput(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("input is not valid JSON: %w", err)
	}
	a.logger.Debug("Input decoded.", "bytes", len(raw))

	converted, err := a.engine.Convert(value, descriptor.RecordOf(cfg.Record))
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	a.logger.Debug("Conversion succeeded.", "record", cfg.Record)

	out, err := json.MarshalIndent(converted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(a.outW, string(out))
	return nil
}

// readInput loads the whole input document from the configured file, or
// from the app's input stream when the path is empty or "-".
func (a *App) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(a.inR)
	}
	return os.ReadFile(path)
}
