package configuration

import "fmt"

// Role is the declared creation role of a configuration. It fixes the
// initial usage flags and is immutable once the configuration exists.
type Role int

const (
	// RoleLegacy allows every usage; kept for build scripts predating
	// role-scoped configurations.
	RoleLegacy Role = iota
	// RoleConsumable exposes artifacts to other projects, nothing else.
	RoleConsumable
	// RoleResolvable resolves a dependency graph, nothing else.
	RoleResolvable
	// RoleDependencyScope only collects dependency declarations for other
	// configurations to extend.
	RoleDependencyScope
)

var roleNames = map[Role]string{
	RoleLegacy:          "legacy",
	RoleConsumable:      "consumable",
	RoleResolvable:      "resolvable",
	RoleDependencyScope: "dependency-scope",
}

// String returns the role's configuration-file spelling.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a configuration-file spelling into a Role.
func ParseRole(s string) (Role, error) {
	for r, n := range roleNames {
		if n == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown configuration role %q (want one of legacy, consumable, resolvable, dependency-scope)", s)
}

// allowedUsage returns the initial usage flags for the role.
func (r Role) allowedUsage() (consumable, resolvable, declarable bool) {
	switch r {
	case RoleConsumable:
		return true, false, false
	case RoleResolvable:
		return false, true, false
	case RoleDependencyScope:
		return false, false, true
	default:
		return true, true, true
	}
}
