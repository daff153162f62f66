package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/moduleid"
)

// Container is the session-scoped set of configurations.
type Container struct {
	ids *moduleid.Registry

	mu     sync.Mutex
	byName map[string]*configuration.Configuration
	order  []*configuration.Configuration
}

// NewContainer creates an empty container sharing the given interning
// registry.
func NewContainer(ids *moduleid.Registry) *Container {
	return &Container{
		ids:    ids,
		byName: make(map[string]*configuration.Configuration),
	}
}

// IDs returns the interning registry shared by all configurations in the
// container.
func (ct *Container) IDs() *moduleid.Registry { return ct.ids }

// Create adds a new configuration with the given name and role. Names are
// unique within a container.
func (ct *Container) Create(name string, role configuration.Role) (*configuration.Configuration, error) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if _, ok := ct.byName[name]; ok {
		return nil, fmt.Errorf("configuration %q already exists", name)
	}
	conf := configuration.New(name, role)
	ct.byName[name] = conf
	ct.order = append(ct.order, conf)
	return conf, nil
}

// Get returns the configuration with the given name.
func (ct *Container) Get(name string) (*configuration.Configuration, bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	conf, ok := ct.byName[name]
	return conf, ok
}

// All returns every configuration in creation order.
func (ct *Container) All() []*configuration.Configuration {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	out := make([]*configuration.Configuration, len(ct.order))
	copy(out, ct.order)
	return out
}

// LockAll locks every configuration leniently and returns the aggregated
// validation failures across the whole container. An empty result means the
// container locked cleanly.
func (ct *Container) LockAll(ctx context.Context) []error {
	logger := ctxlog.FromContext(ctx)
	var failures []error
	for _, conf := range ct.All() {
		confFailures := conf.PreventFromFurtherMutationLenient()
		if len(confFailures) > 0 {
			logger.Warn("configuration locked with problems",
				"configuration", conf.Name(), "problems", len(confFailures))
		}
		failures = append(failures, confFailures...)
	}
	return failures
}
