package gridcfg

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific declaration loader.
type Loader interface {
	// Load reads grid declarations from the given paths and translates them
	// into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the loaded, format-agnostic view of all grid files.
type Model struct {
	// Configurations in declaration order.
	Configurations []*ConfigurationDecl
	// Modules is the declared module universe available for version
	// selection, in declaration order.
	Modules []*ModuleDecl
}

// Configuration returns the declaration with the given name, if present.
func (m *Model) Configuration(name string) (*ConfigurationDecl, bool) {
	for _, c := range m.Configurations {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ConfigurationDecl is one declared configuration.
type ConfigurationDecl struct {
	Name    string
	Role    string
	Extends []string

	// Usage overrides; nil leaves the role's default in place.
	Consumable *bool
	Resolvable *bool
	Declarable *bool

	// ConsistentWith names the configuration whose resolution result this
	// one pins its versions to. Empty for none.
	ConsistentWith string

	Attributes   map[string]cty.Value
	Dependencies []DependencyDecl
	Excludes     []ExcludeDecl
	Artifacts    []ArtifactDecl
	Capabilities []CapabilityDecl
	Variants     []VariantDecl
}

// DependencyDecl is one declared dependency coordinate plus constraint.
type DependencyDecl struct {
	Group   string
	Name    string
	Version string
}

// ExcludeDecl is one declared exclude rule.
type ExcludeDecl struct {
	Group  string
	Module string
}

// ArtifactDecl is one declared output artifact.
type ArtifactDecl struct {
	Name       string
	Type       string
	Classifier string
	File       string
}

// CapabilityDecl is one declared capability.
type CapabilityDecl struct {
	Group   string
	Name    string
	Version string
}

// VariantDecl is one declared child variant.
type VariantDecl struct {
	Name         string
	Attributes   map[string]cty.Value
	Artifacts    []ArtifactDecl
	Capabilities []CapabilityDecl
}

// ModuleDecl is one module coordinate in the declared universe, with its
// available versions.
type ModuleDecl struct {
	Group    string
	Name     string
	Versions []string
}
