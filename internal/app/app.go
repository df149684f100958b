package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/recast/internal/ctxlog"
	"github.com/vk/recast/internal/engine"
	"github.com/vk/recast/internal/manifest"
	"github.com/vk/recast/internal/registry"
)

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	inR    io.Reader
	outW   io.Writer
	logger *slog.Logger

	registry *registry.Registry
	engine   *engine.Engine
}

// NewApp constructs a fully initialized App: it configures an isolated
// logger, loads every schema manifest under cfg.SchemaPath and builds the
// conversion engine over the populated registry. Results are written to
// outW; logs go to errW. A failure to load schemas is a fatal startup error
// and panics, which the entrypoint recovers into a clean exit.
func NewApp(inR io.Reader, outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	loader := manifest.NewLoader()
	if err := loader.LoadPath(ctx, reg, cfg.SchemaPath); err != nil {
		panic(fmt.Errorf("failed to load schemas: %w", err))
	}
	logger.Debug("Schema registry populated.", "records", len(reg.Records()))

	return &App{
		inR:      inR,
		outW:     outW,
		logger:   logger,
		registry: reg,
		engine:   engine.New(reg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
