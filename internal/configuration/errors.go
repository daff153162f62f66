package configuration

import "fmt"

// IllegalMutationError is returned when a mutating call is rejected: the
// configuration is already locked, its usage is frozen, or a registered
// validator vetoed the change. The configuration itself is left intact.
type IllegalMutationError struct {
	// Configuration is the display name of the rejected configuration.
	Configuration string
	// Kind is what the call attempted to change.
	Kind MutationKind
	// Reason explains the rejection.
	Reason string
	// Cause is the validator's error when the rejection came from a veto.
	Cause error
}

func (e *IllegalMutationError) Error() string {
	return fmt.Sprintf("cannot change %s of %s: %s", e.Kind, e.Configuration, e.Reason)
}

func (e *IllegalMutationError) Unwrap() error { return e.Cause }

// LockValidationError is one problem found while locking a configuration.
// These are collected leniently: PreventFromFurtherMutationLenient returns
// every problem it finds and leaves the abort-or-continue decision to the
// caller.
type LockValidationError struct {
	Configuration string
	Problem       string
}

func (e *LockValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Configuration, e.Problem)
}
