// Package session owns the state of one build invocation: the interning
// registry, the configuration container built from the loaded model, and the
// module universe used for version selection.
package session

import (
	"context"

	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/gridcfg"
	"github.com/vk/depgrid/internal/moduleid"
	"github.com/vk/depgrid/internal/registry"
	"github.com/vk/depgrid/internal/resolver"
)

// Session is a single build invocation over a loaded model.
type Session struct {
	ids       *moduleid.Registry
	container *registry.Container
	universe  *resolver.Universe
}

// New builds a session from the loaded model: configurations go into the
// container, module declarations into the version universe. Both share one
// interning registry so module IDs compare with ==.
func New(ctx context.Context, model *gridcfg.Model) (*Session, error) {
	ids := moduleid.NewRegistry()
	container, err := registry.FromModel(ctx, model, ids)
	if err != nil {
		return nil, err
	}
	universe, err := resolver.NewUniverse(ids, model.Modules)
	if err != nil {
		return nil, err
	}
	return &Session{ids: ids, container: container, universe: universe}, nil
}

// IDs returns the session's interning registry.
func (s *Session) IDs() *moduleid.Registry { return s.ids }

// Container returns the session's configuration container.
func (s *Session) Container() *registry.Container { return s.container }

// Lock ends the mutation phase: every configuration is locked leniently and
// the collected validation failures are returned. The caller decides whether
// the failures abort the build.
func (s *Session) Lock(ctx context.Context) []error {
	return s.container.LockAll(ctx)
}

// Resolve resolves every resolvable configuration on a pool of the given
// size.
func (s *Session) Resolve(ctx context.Context, workers int) (*resolver.Result, error) {
	return resolver.New(s.universe, workers).Resolve(ctx, s.container)
}

// Close releases the session. Configurations that never resolved are left in
// their current state; a closed session must not be reused.
func (s *Session) Close(ctx context.Context) error {
	unresolved := 0
	for _, conf := range s.container.All() {
		if conf.IsCanBeResolved() && conf.State() == configuration.Unresolved {
			unresolved++
		}
	}
	if unresolved > 0 {
		ctxlog.FromContext(ctx).Debug("session closed with unresolved configurations", "count", unresolved)
	}
	return nil
}
