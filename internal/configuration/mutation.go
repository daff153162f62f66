package configuration

import "fmt"

// MutationKind classifies what a mutating call is about to change, so
// validators can veto selectively.
type MutationKind int

const (
	// MutationDependencies covers the declared dependency set, dependency
	// actions and exclude rules.
	MutationDependencies MutationKind = iota
	// MutationAttributes covers the attribute container and child variants.
	MutationAttributes
	// MutationArtifacts covers declared artifacts and capabilities.
	MutationArtifacts
	// MutationUsage covers the canBeConsumed/canBeResolved/
	// canBeDeclaredAgainst flags and deprecation status.
	MutationUsage
	// MutationHierarchy covers the extends-from set.
	MutationHierarchy
	// MutationStrategy covers resolution-strategy settings such as the
	// consistent-resolution source.
	MutationStrategy
)

func (k MutationKind) String() string {
	switch k {
	case MutationDependencies:
		return "dependencies"
	case MutationAttributes:
		return "attributes"
	case MutationArtifacts:
		return "artifacts"
	case MutationUsage:
		return "usage"
	case MutationHierarchy:
		return "hierarchy"
	case MutationStrategy:
		return "resolution strategy"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// MutationValidator is consulted before every mutating call. Returning a
// non-nil error vetoes the mutation; the error is surfaced to the caller
// wrapped in an IllegalMutationError.
//
// Validators run synchronously on the mutating goroutine and must be
// side-effect-light: no blocking I/O.
type MutationValidator interface {
	ValidateMutation(kind MutationKind) error
}

// ValidatorFunc adapts a function to the MutationValidator interface.
// Note that two ValidatorFunc values are only removable when registered via
// distinct pointers; prefer a named type when removal matters.
type ValidatorFunc func(kind MutationKind) error

func (f *ValidatorFunc) ValidateMutation(kind MutationKind) error { return (*f)(kind) }
