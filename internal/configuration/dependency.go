package configuration

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/vk/depgrid/internal/moduleid"
)

// Dependency is one declared dependency of a configuration: an interned
// module coordinate plus the version constraint it was declared with.
type Dependency struct {
	ID *moduleid.ModuleID
	// Constraint is the parsed form of RawConstraint.
	Constraint *semver.Constraints
	// RawConstraint is the constraint exactly as declared; "*" when the
	// declaration carried no constraint.
	RawConstraint string
}

// NewDependency builds a dependency from an interned ID and a raw version
// constraint. An empty constraint means "any version".
func NewDependency(id *moduleid.ModuleID, rawConstraint string) (Dependency, error) {
	raw := strings.TrimSpace(rawConstraint)
	if raw == "" {
		raw = "*"
	}
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return Dependency{}, fmt.Errorf("dependency %s: invalid version constraint %q: %w", id, raw, err)
	}
	return Dependency{ID: id, Constraint: c, RawConstraint: raw}, nil
}

func (d Dependency) String() string {
	return d.ID.String() + ":" + d.RawConstraint
}

// DependencyConstraint pins a module to an exact version. Lists of these are
// produced on demand for consistent resolution (see
// ConsistentResolutionConstraints).
type DependencyConstraint struct {
	ID      *moduleid.ModuleID
	Version string
	// Reason records where the pin came from, for diagnostics.
	Reason string
}

func (dc DependencyConstraint) String() string {
	return fmt.Sprintf("%s:%s (%s)", dc.ID, dc.Version, dc.Reason)
}

// DependencyAction is a user-registered callback that may mutate the
// configuration's dependency set before resolution. Each action runs exactly
// once, the first time RunDependencyActions executes.
type DependencyAction func(c *Configuration)
