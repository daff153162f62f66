package moduleid

import (
	"sync"
)

// ModuleID is the canonical identity of a module: a (group, name) coordinate
// pair. Instances obtained from a Registry are interned, so two IDs for the
// same coordinates are pointer-identical and may be compared with ==.
//
// The zero value is not a valid ModuleID; always obtain instances from a
// Registry.
type ModuleID struct {
	group string
	name  string
}

// Group returns the organisational namespace of the module.
func (id *ModuleID) Group() string { return id.group }

// Name returns the module's name within its group.
func (id *ModuleID) Name() string { return id.name }

// String serializes the ID into its canonical "group:name" form.
func (id *ModuleID) String() string {
	return id.group + ":" + id.name
}

// Registry interns (group, name) pairs into canonical *ModuleID instances.
// The zero value is ready to use.
type Registry struct {
	// byGroup maps group -> *sync.Map of name -> *ModuleID. Both levels use
	// LoadOrStore so the get-or-create is atomic end to end.
	byGroup sync.Map
}

// NewRegistry creates an empty interning registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Module returns the canonical *ModuleID for the given coordinates, creating
// it on first request. Equality of coordinates is case-sensitive string
// equality. The call is total: any pair of strings yields an ID.
func (r *Registry) Module(group, name string) *ModuleID {
	byName, ok := r.byGroup.Load(group)
	if !ok {
		byName, _ = r.byGroup.LoadOrStore(group, &sync.Map{})
	}
	names := byName.(*sync.Map)

	if id, ok := names.Load(name); ok {
		return id.(*ModuleID)
	}
	id, _ := names.LoadOrStore(name, &ModuleID{group: group, name: name})
	return id.(*ModuleID)
}
