package app

import (
	"context"
	"fmt"

	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/session"
)

// Run executes the build: session construction, container locking, version
// resolution and report rendering.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started")

	sess, err := session.New(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to build session: %w", err)
	}
	defer sess.Close(ctx)

	failures := sess.Lock(ctx)
	for _, failure := range failures {
		a.logger.Error("lock validation failed", "error", failure)
	}
	if err := configuration.CombineLockFailures(failures); err != nil {
		return fmt.Errorf("configuration container failed lock validation: %w", err)
	}
	a.logger.Debug("container locked")

	result, err := sess.Resolve(ctx, appConfig.WorkerCount)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}
	a.logger.Info("resolution finished", "configurations", len(result.All()))

	return a.render(appConfig.Output, sess, result)
}
