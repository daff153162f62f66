package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/gridcfg"
)

// App encapsulates one invocation's dependencies, configuration and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	model  *gridcfg.Model
}

// NewApp constructs the application: it configures an isolated logger and
// loads the grid declarations through the given loader. A failure to load is
// a fatal startup error and panics; the entrypoint recovers it into a clean
// exit message.
func NewApp(outW io.Writer, appConfig *Config, loader gridcfg.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	model, err := loader.Load(ctx, appConfig.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load grid declarations: %w", err))
	}
	logger.Debug("grid declarations loaded",
		"configurations", len(model.Configurations), "modules", len(model.Modules))

	return &App{
		outW:   outW,
		logger: logger,
		model:  model,
	}
}

// Model returns the loaded declaration model. Primarily for testing.
func (a *App) Model() *gridcfg.Model { return a.model }
