// Package excludes defines the exclude rules that remove transitive
// dependency coordinates from a configuration's resolution.
package excludes

// Rule removes matching transitive dependencies from resolution. Either
// field may be empty, meaning "any". Rules are value types; deduplication
// across a configuration hierarchy is by value equality.
type Rule struct {
	Group  string
	Module string
}

func (r Rule) String() string {
	group := r.Group
	if group == "" {
		group = "*"
	}
	module := r.Module
	if module == "" {
		module = "*"
	}
	return group + ":" + module
}

// Matches reports whether the rule applies to the given coordinates.
func (r Rule) Matches(group, module string) bool {
	if r.Group != "" && r.Group != group {
		return false
	}
	if r.Module != "" && r.Module != module {
		return false
	}
	return true
}

// Union merges rule sets, deduplicating by value. Order of the result is
// unspecified.
func Union(sets ...[]Rule) []Rule {
	seen := make(map[Rule]struct{})
	var out []Rule
	for _, set := range sets {
		for _, r := range set {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
