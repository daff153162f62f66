// Package configuration implements the mutable-then-locked dependency
// configuration at the heart of the resolution engine.
//
// # Lifecycle
//
// A configuration is created unlocked and Unresolved, mutated freely while
// build scripts evaluate, then locked via BeforeLocking actions followed by
// PreventFromFurtherMutationLenient. Afterwards the resolver observes it,
// advancing its internal state monotonically until ArtifactsResolved, which
// is terminal for the session. Configurations are never destroyed within a
// session.
//
// # Mutation discipline
//
//  1. Every mutating call first consults the registered mutation validators;
//     any veto aborts the call with an IllegalMutationError.
//  2. PreventUsageMutation freezes the usage flags (and deprecation status)
//     ahead of the full lock.
//  3. PreventFromFurtherMutationLenient runs the before-locking actions,
//     locks the configuration, and returns every validation problem found
//     rather than failing on the first.
//
// # Thread-Safety
//
// Declaration-phase mutation is effectively single-writer (build-script
// evaluation is serial), but state observation is not: parallel resolver
// workers call MarkAsObserved concurrently, so the state advance is a
// compare-and-swap loop. Once locked, all read paths are safe from any
// goroutine.
package configuration
