package resolver

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/multierr"

	"github.com/vk/depgrid/internal/configuration"
	"github.com/vk/depgrid/internal/ctxlog"
	"github.com/vk/depgrid/internal/moduleid"
	"github.com/vk/depgrid/internal/registry"
	"github.com/vk/depgrid/internal/resolveerr"
)

// Selection is one resolved module: the version picked and where it came
// from.
type Selection struct {
	ID      *moduleid.ModuleID
	Version string
	// Pinned is true when the version came from a consistent-resolution
	// constraint rather than free selection.
	Pinned bool
}

// ConfigurationResult is the outcome of resolving one configuration.
type ConfigurationResult struct {
	Name       string
	Selections []Selection
	// Excluded lists the dependency coordinates dropped by exclude rules.
	Excluded []string
}

// Result holds the outcome for every resolvable configuration in a
// container.
type Result struct {
	mu      sync.Mutex
	byName  map[string]*ConfigurationResult
	ordered []*ConfigurationResult
}

// Configuration returns the result for the named configuration, if it was
// resolved.
func (r *Result) Configuration(name string) (*ConfigurationResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byName[name]
	return res, ok
}

// All returns every configuration result sorted by configuration name.
func (r *Result) All() []*ConfigurationResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ConfigurationResult, len(r.ordered))
	copy(out, r.ordered)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Result) add(res *ConfigurationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[res.Name] = res
	r.ordered = append(r.ordered, res)
}

// Resolver selects versions for resolvable configurations against a declared
// universe.
type Resolver struct {
	universe *Universe
	workers  int
}

// New creates a resolver running at most workers concurrent resolutions.
func New(universe *Universe, workers int) *Resolver {
	if workers < 1 {
		workers = 1
	}
	return &Resolver{universe: universe, workers: workers}
}

// Resolve resolves every resolvable configuration in the container.
// Configurations with a consistent-resolution source resolve in a later wave
// than their source; configurations within a wave run concurrently on the
// worker pool. The first failing wave aborts the run.
func (r *Resolver) Resolve(ctx context.Context, ct *registry.Container) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	var resolvable []*configuration.Configuration
	inSet := make(map[*configuration.Configuration]bool)
	for _, conf := range ct.All() {
		if conf.IsCanBeResolved() {
			resolvable = append(resolvable, conf)
			inSet[conf] = true
		}
	}

	waves, err := planWaves(resolvable, inSet)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolution planned", "configurations", len(resolvable), "waves", len(waves))

	result := &Result{byName: make(map[string]*ConfigurationResult)}
	for i, wave := range waves {
		if err := r.runWave(ctx, wave, result); err != nil {
			return nil, fmt.Errorf("resolution wave %d: %w", i, err)
		}
	}
	return result, nil
}

// planWaves orders configurations so that every consistent-resolution source
// resolves before the configurations pinned to it. A pin cycle cannot be
// ordered and is an error.
func planWaves(resolvable []*configuration.Configuration, inSet map[*configuration.Configuration]bool) ([][]*configuration.Configuration, error) {
	var waves [][]*configuration.Configuration
	scheduled := make(map[*configuration.Configuration]bool)
	remaining := resolvable

	for len(remaining) > 0 {
		var wave, next []*configuration.Configuration
		for _, conf := range remaining {
			source := conf.ConsistentResolutionSource()
			if source == nil || !inSet[source] || scheduled[source] {
				wave = append(wave, conf)
				continue
			}
			next = append(next, conf)
		}
		if len(wave) == 0 {
			names := make([]string, 0, len(next))
			for _, conf := range next {
				names = append(names, conf.Name())
			}
			sort.Strings(names)
			return nil, fmt.Errorf("consistent resolution sources form a cycle among configurations %v", names)
		}
		for _, conf := range wave {
			scheduled[conf] = true
		}
		waves = append(waves, wave)
		remaining = next
	}
	return waves, nil
}

// runWave resolves one wave on the worker pool and aggregates failures.
func (r *Resolver) runWave(ctx context.Context, wave []*configuration.Configuration, result *Result) error {
	work := make(chan *configuration.Configuration)

	var mu sync.Mutex
	var failures error

	var wg sync.WaitGroup
	for workerID := 0; workerID < r.workers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			// Each worker logs with its own identity attached.
			wctx := ctxlog.With(ctx, "workerID", workerID)
			logger := ctxlog.FromContext(wctx)
			for conf := range work {
				logger.Debug("worker picked up configuration", "configuration", conf.Name())
				res, err := r.ResolveConfiguration(wctx, conf)
				if err != nil {
					logger.Error("configuration resolution failed", "configuration", conf.Name(), "error", err)
					mu.Lock()
					failures = multierr.Append(failures, err)
					mu.Unlock()
					continue
				}
				result.add(res)
			}
		}(workerID)
	}

	for _, conf := range wave {
		work <- conf
	}
	close(work)
	wg.Wait()
	return failures
}

// ResolveConfiguration resolves a single configuration: dependency actions
// run first, then version selection against the universe honoring any
// consistent-resolution pins, then exclude-rule filtering.
func (r *Resolver) ResolveConfiguration(ctx context.Context, conf *configuration.Configuration) (*ConfigurationResult, error) {
	if !conf.IsCanBeResolved() {
		rerr := resolveerr.New(conf.DisplayName(), fmt.Errorf("resolving it is not allowed"))
		return nil, conf.MaybeAddContext(rerr)
	}

	conf.RunDependencyActions()
	conf.MarkAsObserved(configuration.BuildDependenciesResolved)

	pins, err := r.pins(conf)
	if err != nil {
		return nil, conf.MaybeAddContext(resolveerr.New(conf.DisplayName(), err))
	}

	res := &ConfigurationResult{Name: conf.Name()}
	excludeRules := conf.AllExcludeRules()

	// Gather constraints per module; a module declared several times must
	// satisfy every declaration at once.
	perModule := make(map[*moduleid.ModuleID][]*semver.Constraints)
	var order []*moduleid.ModuleID
	for _, dep := range conf.AllDependencies() {
		excluded := false
		for _, rule := range excludeRules {
			if rule.Matches(dep.ID.Group(), dep.ID.Name()) {
				excluded = true
				break
			}
		}
		if excluded {
			res.Excluded = append(res.Excluded, dep.ID.String())
			continue
		}
		if _, ok := perModule[dep.ID]; !ok {
			order = append(order, dep.ID)
		}
		perModule[dep.ID] = append(perModule[dep.ID], dep.Constraint)
	}

	for _, id := range order {
		sel, err := r.selectVersion(id, perModule[id], pins)
		if err != nil {
			return nil, conf.MaybeAddContext(resolveerr.New(conf.DisplayName(), err))
		}
		res.Selections = append(res.Selections, sel)
		conf.RecordResolvedVersion(id, sel.Version)
	}
	conf.MarkAsObserved(configuration.GraphResolved)

	sort.Slice(res.Selections, func(i, j int) bool {
		return res.Selections[i].ID.String() < res.Selections[j].ID.String()
	})
	sort.Strings(res.Excluded)
	conf.MarkAsObserved(configuration.ArtifactsResolved)

	ctxlog.FromContext(ctx).Debug("configuration resolved",
		"configuration", conf.Name(), "modules", len(res.Selections), "excluded", len(res.Excluded))
	return res, nil
}

// pins materializes the consistent-resolution constraints into a lookup map.
func (r *Resolver) pins(conf *configuration.Configuration) (map[*moduleid.ModuleID]configuration.DependencyConstraint, error) {
	supplier := conf.ConsistentResolutionConstraints()
	constraints, err := supplier()
	if err != nil {
		return nil, err
	}
	if len(constraints) == 0 {
		return nil, nil
	}
	pins := make(map[*moduleid.ModuleID]configuration.DependencyConstraint, len(constraints))
	for _, c := range constraints {
		pins[c.ID] = c
	}
	return pins, nil
}

// selectVersion picks the version for one module. A pin wins when present
// but must still satisfy the declared constraints.
func (r *Resolver) selectVersion(id *moduleid.ModuleID, constraints []*semver.Constraints, pins map[*moduleid.ModuleID]configuration.DependencyConstraint) (Selection, error) {
	if pin, ok := pins[id]; ok {
		v, err := semver.NewVersion(pin.Version)
		if err != nil {
			return Selection{}, fmt.Errorf("pinned version %q of %s is not valid: %w", pin.Version, id, err)
		}
		for _, c := range constraints {
			if !c.Check(v) {
				return Selection{}, fmt.Errorf("declared constraint %s on %s conflicts with %s", c, id, pin)
			}
		}
		return Selection{ID: id, Version: pin.Version, Pinned: true}, nil
	}

	v, err := r.universe.Select(id, constraints)
	if err != nil {
		return Selection{}, err
	}
	return Selection{ID: id, Version: v.Original()}, nil
}
