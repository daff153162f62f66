// Package capability defines the capability coordinates a variant can carry.
package capability

// Capability names a feature a variant provides, in module-coordinate form.
// Two variants carrying the same capability are mutually exclusive in a
// consumer's dependency graph.
type Capability struct {
	Group   string
	Name    string
	Version string
}

func (c Capability) String() string {
	if c.Version == "" {
		return c.Group + ":" + c.Name
	}
	return c.Group + ":" + c.Name + ":" + c.Version
}
