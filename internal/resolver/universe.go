package resolver

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/vk/depgrid/internal/gridcfg"
	"github.com/vk/depgrid/internal/moduleid"
)

// Universe is the set of module versions available for selection, keyed by
// interned module ID. It is immutable after construction and safe for
// concurrent reads.
type Universe struct {
	versions map[*moduleid.ModuleID][]*semver.Version
}

// NewUniverse parses the declared module universe. Versions are stored in
// descending order so selection can stop at the first match.
func NewUniverse(ids *moduleid.Registry, modules []*gridcfg.ModuleDecl) (*Universe, error) {
	u := &Universe{versions: make(map[*moduleid.ModuleID][]*semver.Version, len(modules))}
	for _, m := range modules {
		id := ids.Module(m.Group, m.Name)
		parsed := make([]*semver.Version, 0, len(m.Versions))
		for _, raw := range m.Versions {
			v, err := semver.NewVersion(raw)
			if err != nil {
				return nil, fmt.Errorf("module %s: invalid version %q: %w", id, raw, err)
			}
			parsed = append(parsed, v)
		}
		sort.Sort(sort.Reverse(semver.Collection(parsed)))
		u.versions[id] = append(u.versions[id], parsed...)
	}
	return u, nil
}

// Versions returns the known versions for a module, highest first.
func (u *Universe) Versions(id *moduleid.ModuleID) []*semver.Version {
	return u.versions[id]
}

// Select returns the highest version of the module satisfying every given
// constraint.
func (u *Universe) Select(id *moduleid.ModuleID, constraints []*semver.Constraints) (*semver.Version, error) {
	available, ok := u.versions[id]
	if !ok {
		return nil, fmt.Errorf("module %s is not in the declared universe", id)
	}
candidates:
	for _, v := range available {
		for _, c := range constraints {
			if !c.Check(v) {
				continue candidates
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("no version of %s satisfies %s (available: %s)",
		id, renderConstraints(constraints), renderVersions(available))
}

func renderConstraints(constraints []*semver.Constraints) string {
	out := ""
	for i, c := range constraints {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}

func renderVersions(versions []*semver.Version) string {
	out := ""
	for i, v := range versions {
		if i > 0 {
			out += ", "
		}
		out += v.String()
	}
	return out
}
