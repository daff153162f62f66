package configuration

import (
	"fmt"

	"go.uber.org/multierr"
)

// BeforeLocking registers an action to run once, immediately before the
// configuration transitions to the locked state. Actions run in registration
// order and may still mutate the configuration.
func (c *Configuration) BeforeLocking(action func(*Configuration)) error {
	if err := c.beforeMutate(MutationStrategy); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beforeLocking = append(c.beforeLocking, action)
	return nil
}

// IsCanBeMutated reports whether the configuration is still unlocked.
func (c *Configuration) IsCanBeMutated() bool {
	return !c.locked.Load()
}

// PreventFromFurtherMutationLenient runs the before-locking actions and any
// pending dependency actions, locks the configuration for all further
// mutation, and validates the result. Dependency actions get their one pass
// here while the dependency set can still change; a configuration locked
// through this path reaches the resolver with its final dependencies.
// Every problem found is collected into the returned list instead of
// aborting on the first; deciding whether to fail the build is the caller's
// responsibility. Calling on an already-locked configuration is a no-op.
func (c *Configuration) PreventFromFurtherMutationLenient() []error {
	if c.locked.Load() {
		return nil
	}

	c.mu.Lock()
	actions := c.beforeLocking
	c.beforeLocking = nil
	c.mu.Unlock()
	for _, action := range actions {
		action(c)
	}
	c.RunDependencyActions()

	c.usageLocked.Store(true)
	c.locked.Store(true)

	return c.validateLockedState()
}

func (c *Configuration) validateLockedState() []error {
	var failures []error

	c.mu.Lock()
	consumable := c.canBeConsumed
	resolvable := c.canBeResolved
	declarable := c.canBeDeclaredAgainst
	source := c.consistentResolutionSource
	c.mu.Unlock()

	if !consumable && !resolvable && !declarable {
		failures = append(failures, &LockValidationError{
			Configuration: c.displayName,
			Problem:       "it allows no usage at all; enable at least one of consumable, resolvable or declarable",
		})
	}
	if consumable && c.attributes.Len() == 0 {
		failures = append(failures, &LockValidationError{
			Configuration: c.displayName,
			Problem:       "it is consumable but declares no attributes, so no consumer can ever match it",
		})
	}
	if source != nil && !source.IsCanBeResolved() {
		failures = append(failures, &LockValidationError{
			Configuration: c.displayName,
			Problem: fmt.Sprintf("its consistent resolution source %s cannot be resolved, so there is no resolution result to pin to",
				source.displayName),
		})
	}
	return failures
}

// CombineLockFailures folds the lenient failure list into a single error for
// callers that want to abort on any problem. Returns nil for an empty list.
func CombineLockFailures(failures []error) error {
	return multierr.Combine(failures...)
}
