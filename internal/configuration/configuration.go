package configuration

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
	"github.com/vk/depgrid/internal/excludes"
	"github.com/vk/depgrid/internal/moduleid"
	"github.com/vk/depgrid/internal/resolveerr"
)

// Configuration is a named, declarable set of dependencies, exclude rules
// and resolution attributes, with its own usage policy and resolution
// lifecycle. See the package documentation for the lifecycle contract.
type Configuration struct {
	name        string
	displayName string
	role        Role

	state       atomic.Int32
	locked      atomic.Bool
	usageLocked atomic.Bool

	// mu guards all fields below.
	mu sync.Mutex

	canBeConsumed        bool
	canBeResolved        bool
	canBeDeclaredAgainst bool

	deprecatedForConsumption bool
	deprecatedForResolution  bool
	deprecatedForDeclaration bool

	extendsFrom []*Configuration

	dependencies      []Dependency
	dependencyActions []DependencyAction
	excludeRules      []excludes.Rule

	validators    []MutationValidator
	beforeLocking []func(*Configuration)

	attributes    *attr.Container
	artifacts     []artifact.Artifact
	capabilities  []capability.Capability
	childVariants []*ChildVariant

	consistentResolutionSource *Configuration

	// resolvedVersions is written by the resolver once the graph for this
	// configuration is resolved; it backs consistent-resolution constraint
	// computation for configurations pinned to this one.
	resolvedVersions map[*moduleid.ModuleID]string
}

// New creates an unlocked, Unresolved configuration with the usage flags
// implied by the role.
func New(name string, role Role) *Configuration {
	consumable, resolvable, declarable := role.allowedUsage()
	return &Configuration{
		name:                 name,
		displayName:          fmt.Sprintf("configuration '%s'", name),
		role:                 role,
		canBeConsumed:        consumable,
		canBeResolved:        resolvable,
		canBeDeclaredAgainst: declarable,
		attributes:           attr.NewContainer(),
		resolvedVersions:     make(map[*moduleid.ModuleID]string),
	}
}

// Name returns the configuration's declared name.
func (c *Configuration) Name() string { return c.name }

// DisplayName returns the human-readable name used in diagnostics.
func (c *Configuration) DisplayName() string { return c.displayName }

// RoleAtCreation returns the role the configuration was created with.
func (c *Configuration) RoleAtCreation() Role { return c.role }

// State returns the configuration's current resolution state.
func (c *Configuration) State() InternalState {
	return InternalState(c.state.Load())
}

// MarkAsObserved advances the state to max(current, requested). It never
// regresses and is safe to call from parallel resolver workers; the advance
// is a compare-and-swap loop. Extended configurations are observed too,
// since their dependencies and exclude rules contribute to this one's
// resolution.
func (c *Configuration) MarkAsObserved(requested InternalState) {
	for {
		current := c.state.Load()
		if current >= int32(requested) {
			break
		}
		if c.state.CompareAndSwap(current, int32(requested)) {
			break
		}
	}
	for _, parent := range c.ExtendsFrom() {
		parent.MarkAsObserved(requested)
	}
}

// beforeMutate enforces the mutation discipline for a call about to change
// the given aspect. Validators are invoked on the calling goroutine.
func (c *Configuration) beforeMutate(kind MutationKind) error {
	if c.locked.Load() {
		return &IllegalMutationError{
			Configuration: c.displayName,
			Kind:          kind,
			Reason:        "it was locked for further mutation",
		}
	}
	if kind == MutationUsage && c.usageLocked.Load() {
		return &IllegalMutationError{
			Configuration: c.displayName,
			Kind:          kind,
			Reason:        "allowed usage was already frozen",
		}
	}
	for _, v := range c.validatorsSnapshot() {
		if err := v.ValidateMutation(kind); err != nil {
			return &IllegalMutationError{
				Configuration: c.displayName,
				Kind:          kind,
				Reason:        err.Error(),
				Cause:         err,
			}
		}
	}
	return nil
}

func (c *Configuration) validatorsSnapshot() []MutationValidator {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]MutationValidator, len(c.validators))
	copy(out, c.validators)
	return out
}

// AddMutationValidator registers a validator consulted on every subsequent
// mutating call.
func (c *Configuration) AddMutationValidator(v MutationValidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validators = append(c.validators, v)
}

// RemoveMutationValidator deregisters a previously added validator. Unknown
// validators are ignored.
func (c *Configuration) RemoveMutationValidator(v MutationValidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.validators {
		if existing == v {
			c.validators = append(c.validators[:i], c.validators[i+1:]...)
			return
		}
	}
}

// --- Usage flags ---

// IsCanBeConsumed reports whether other projects may consume this
// configuration's artifacts.
func (c *Configuration) IsCanBeConsumed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBeConsumed
}

// IsCanBeResolved reports whether this configuration may resolve a
// dependency graph.
func (c *Configuration) IsCanBeResolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBeResolved
}

// IsCanBeDeclaredAgainst reports whether dependencies may be declared on
// this configuration.
func (c *Configuration) IsCanBeDeclaredAgainst() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBeDeclaredAgainst
}

// SetCanBeConsumed changes the consumable flag. Fails after
// PreventUsageMutation or a full lock.
func (c *Configuration) SetCanBeConsumed(allowed bool) error {
	return c.setUsage(func() { c.canBeConsumed = allowed })
}

// SetCanBeResolved changes the resolvable flag. Fails after
// PreventUsageMutation or a full lock.
func (c *Configuration) SetCanBeResolved(allowed bool) error {
	return c.setUsage(func() { c.canBeResolved = allowed })
}

// SetCanBeDeclaredAgainst changes the declarable flag. Fails after
// PreventUsageMutation or a full lock.
func (c *Configuration) SetCanBeDeclaredAgainst(allowed bool) error {
	return c.setUsage(func() { c.canBeDeclaredAgainst = allowed })
}

func (c *Configuration) setUsage(apply func()) error {
	if err := c.beforeMutate(MutationUsage); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	apply()
	return nil
}

// PreventUsageMutation freezes the usage flags and deprecation status. Any
// later call that would change them fails immediately; the failure is fatal
// to that call, not to the configuration.
func (c *Configuration) PreventUsageMutation() {
	c.usageLocked.Store(true)
}

// --- Deprecation ---

// DeprecateForConsumption marks consuming this configuration as deprecated.
func (c *Configuration) DeprecateForConsumption() error {
	return c.setUsage(func() { c.deprecatedForConsumption = true })
}

// DeprecateForResolution marks resolving this configuration as deprecated.
func (c *Configuration) DeprecateForResolution() error {
	return c.setUsage(func() { c.deprecatedForResolution = true })
}

// DeprecateForDeclaration marks declaring dependencies on this configuration
// as deprecated.
func (c *Configuration) DeprecateForDeclaration() error {
	return c.setUsage(func() { c.deprecatedForDeclaration = true })
}

// IsDeprecatedForConsumption reports the consumption deprecation status.
func (c *Configuration) IsDeprecatedForConsumption() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deprecatedForConsumption
}

// IsDeprecatedForResolution reports the resolution deprecation status.
func (c *Configuration) IsDeprecatedForResolution() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deprecatedForResolution
}

// IsDeprecatedForDeclaration reports the declaration deprecation status.
func (c *Configuration) IsDeprecatedForDeclaration() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deprecatedForDeclaration
}

// --- Hierarchy ---

// AddExtendsFrom adds parent configurations whose dependencies, dependency
// actions and exclude rules this configuration inherits. The hierarchy forms
// a DAG; diamonds are tolerated.
func (c *Configuration) AddExtendsFrom(parents ...*Configuration) error {
	if err := c.beforeMutate(MutationHierarchy); err != nil {
		return err
	}
	for _, p := range parents {
		if p == c {
			return fmt.Errorf("%s cannot extend itself", c.displayName)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extendsFrom = append(c.extendsFrom, parents...)
	return nil
}

// ExtendsFrom returns the directly extended configurations.
func (c *Configuration) ExtendsFrom() []*Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Configuration, len(c.extendsFrom))
	copy(out, c.extendsFrom)
	return out
}

// IsDeclarableAgainstByExtension reports whether this configuration, or any
// configuration reachable through extends-from, can be declared against.
// Depth-first with a visited set, short-circuiting on the first hit.
func (c *Configuration) IsDeclarableAgainstByExtension() bool {
	return c.isDeclarableAgainstByExtension(make(map[*Configuration]struct{}))
}

func (c *Configuration) isDeclarableAgainstByExtension(visited map[*Configuration]struct{}) bool {
	if _, ok := visited[c]; ok {
		return false
	}
	visited[c] = struct{}{}
	if c.IsCanBeDeclaredAgainst() {
		return true
	}
	for _, parent := range c.ExtendsFrom() {
		if parent.isDeclarableAgainstByExtension(visited) {
			return true
		}
	}
	return false
}

// --- Dependencies ---

// AddDependency declares a dependency on this configuration.
func (c *Configuration) AddDependency(dep Dependency) error {
	if err := c.beforeMutate(MutationDependencies); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dependencies = append(c.dependencies, dep)
	return nil
}

// Dependencies returns the dependencies declared directly on this
// configuration, in declaration order.
func (c *Configuration) Dependencies() []Dependency {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Dependency, len(c.dependencies))
	copy(out, c.dependencies)
	return out
}

// AllDependencies returns this configuration's dependencies plus those of
// every configuration reachable through extends-from.
func (c *Configuration) AllDependencies() []Dependency {
	var out []Dependency
	visited := make(map[*Configuration]struct{})
	var walk func(conf *Configuration)
	walk = func(conf *Configuration) {
		if _, ok := visited[conf]; ok {
			return
		}
		visited[conf] = struct{}{}
		out = append(out, conf.Dependencies()...)
		for _, parent := range conf.ExtendsFrom() {
			walk(parent)
		}
	}
	walk(c)
	return out
}

// OnDependencies registers an action that may mutate the dependency set
// before resolution. The action runs exactly once, the first time
// RunDependencyActions executes.
func (c *Configuration) OnDependencies(action DependencyAction) error {
	if err := c.beforeMutate(MutationDependencies); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dependencyActions = append(c.dependencyActions, action)
	return nil
}

// RunDependencyActions executes every pending dependency action, own actions
// first in registration order, then the extended configurations' actions.
// Each action is discarded after it runs; calling again is a no-op until new
// actions are registered. Actions registered by a running action do not
// execute in the same pass.
func (c *Configuration) RunDependencyActions() {
	c.mu.Lock()
	pending := c.dependencyActions
	c.dependencyActions = nil
	c.mu.Unlock()

	for _, action := range pending {
		action(c)
	}
	for _, parent := range c.ExtendsFrom() {
		parent.RunDependencyActions()
	}
}

// --- Exclude rules ---

// AddExcludeRule adds an exclude rule to this configuration.
func (c *Configuration) AddExcludeRule(rule excludes.Rule) error {
	if err := c.beforeMutate(MutationDependencies); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.excludeRules = append(c.excludeRules, rule)
	return nil
}

// ExcludeRules returns the rules declared directly on this configuration.
func (c *Configuration) ExcludeRules() []excludes.Rule {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]excludes.Rule, len(c.excludeRules))
	copy(out, c.excludeRules)
	return out
}

// AllExcludeRules returns the union of this configuration's exclude rules
// and those of every configuration reachable through extends-from,
// deduplicated by rule value.
func (c *Configuration) AllExcludeRules() []excludes.Rule {
	var sets [][]excludes.Rule
	visited := make(map[*Configuration]struct{})
	var walk func(conf *Configuration)
	walk = func(conf *Configuration) {
		if _, ok := visited[conf]; ok {
			return
		}
		visited[conf] = struct{}{}
		sets = append(sets, conf.ExcludeRules())
		for _, parent := range conf.ExtendsFrom() {
			walk(parent)
		}
	}
	walk(c)
	return excludes.Union(sets...)
}

// --- Attributes, artifacts, capabilities ---

// SetAttribute records an attribute on the configuration, converting the
// value to the key's declared type.
func (c *Configuration) SetAttribute(key attr.Key, value cty.Value) error {
	if err := c.beforeMutate(MutationAttributes); err != nil {
		return err
	}
	return c.attributes.Set(key, value)
}

// Attributes returns the live attribute container. Mutating it directly
// bypasses the mutation guard; use SetAttribute instead.
func (c *Configuration) Attributes() *attr.Container { return c.attributes }

// AddArtifact declares an output artifact.
func (c *Configuration) AddArtifact(a artifact.Artifact) error {
	if err := c.beforeMutate(MutationArtifacts); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = append(c.artifacts, a)
	return nil
}

// Artifacts returns the declared artifacts in declaration order.
func (c *Configuration) Artifacts() []artifact.Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]artifact.Artifact, len(c.artifacts))
	copy(out, c.artifacts)
	return out
}

// AddCapability declares a capability this configuration's variant carries.
func (c *Configuration) AddCapability(cap capability.Capability) error {
	if err := c.beforeMutate(MutationArtifacts); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capabilities = append(c.capabilities, cap)
	return nil
}

// Capabilities returns the declared capabilities.
func (c *Configuration) Capabilities() []capability.Capability {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capability.Capability, len(c.capabilities))
	copy(out, c.capabilities)
	return out
}

// --- Consistent resolution ---

// SetConsistentResolutionSource pins this configuration's resolution to
// match the given configuration's resolution result.
func (c *Configuration) SetConsistentResolutionSource(source *Configuration) error {
	if err := c.beforeMutate(MutationStrategy); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consistentResolutionSource = source
	return nil
}

// ConsistentResolutionSource returns the pin source, or nil.
func (c *Configuration) ConsistentResolutionSource() *Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consistentResolutionSource
}

// RecordResolvedVersion records the version selected for a module when this
// configuration's graph was resolved. Called by the resolver; intentionally
// not subject to the mutation guard, since it happens after locking.
func (c *Configuration) RecordResolvedVersion(id *moduleid.ModuleID, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolvedVersions[id] = version
}

// ConsistentResolutionConstraints returns a supplier for the version pins
// derived from the consistent-resolution source. The list is computed at
// call time, not eagerly, because the source must already be graph-resolved
// for its result to exist.
func (c *Configuration) ConsistentResolutionConstraints() func() ([]DependencyConstraint, error) {
	return func() ([]DependencyConstraint, error) {
		source := c.ConsistentResolutionSource()
		if source == nil {
			return nil, nil
		}
		if source.State() < GraphResolved {
			return nil, fmt.Errorf("cannot compute consistent resolution constraints for %s: %s is not graph-resolved yet",
				c.displayName, source.displayName)
		}
		source.mu.Lock()
		defer source.mu.Unlock()
		out := make([]DependencyConstraint, 0, len(source.resolvedVersions))
		for id, version := range source.resolvedVersions {
			out = append(out, DependencyConstraint{
				ID:      id,
				Version: version,
				Reason:  fmt.Sprintf("version pinned by consistent resolution with %s", source.displayName),
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
		return out, nil
	}
}

// --- Error decoration ---

// MaybeAddContext decorates a resolution failure with hints specific to this
// configuration's role and state. The original error is returned unchanged
// when no context applies.
func (c *Configuration) MaybeAddContext(err *resolveerr.Error) *resolveerr.Error {
	var hints []string
	if !c.IsCanBeResolved() {
		hints = append(hints, fmt.Sprintf("%s is not intended to be resolved; resolve a resolvable configuration extending it instead", c.displayName))
	}
	if c.IsDeprecatedForResolution() {
		hints = append(hints, fmt.Sprintf("resolving %s is deprecated and will stop working in a future release", c.displayName))
	}
	if source := c.ConsistentResolutionSource(); source != nil {
		hints = append(hints, fmt.Sprintf("versions in %s are pinned to the resolution of %s; a conflict there surfaces here", c.displayName, source.displayName))
	}
	return err.WithHints(hints...)
}
