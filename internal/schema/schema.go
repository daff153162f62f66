// Package schema defines the HCL shapes of a dependency grid file: the
// configuration declarations, their variants, and the module universe the
// resolver may select versions from.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// AttributesBlock holds the raw body of an 'attributes' block. Attribute
// names are not fixed; they are read with JustAttributes and evaluated by
// the loader.
type AttributesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Dependency represents a `dependency` block declared inside a
// configuration.
type Dependency struct {
	Group   string `hcl:"group,label"`
	Name    string `hcl:"name,label"`
	Version string `hcl:"version,optional"`
}

// Exclude represents an `exclude` block removing transitive dependencies.
type Exclude struct {
	Group  string `hcl:"group,optional"`
	Module string `hcl:"module,optional"`
}

// Artifact represents an `artifact` block declaring one output.
type Artifact struct {
	Name       string `hcl:"name,label"`
	Type       string `hcl:"type,optional"`
	Classifier string `hcl:"classifier,optional"`
	File       string `hcl:"file,optional"`
}

// Capability represents a `capability` block on a configuration or variant.
type Capability struct {
	Group   string `hcl:"group"`
	Name    string `hcl:"name"`
	Version string `hcl:"version,optional"`
}

// Variant represents a child `variant` block of a configuration.
type Variant struct {
	Name         string           `hcl:"name,label"`
	Attributes   *AttributesBlock `hcl:"attributes,block"`
	Artifacts    []*Artifact      `hcl:"artifact,block"`
	Capabilities []*Capability    `hcl:"capability,block"`
}

// Configuration represents a `configuration` block from a grid file.
type Configuration struct {
	Name           string           `hcl:"name,label"`
	Role           string           `hcl:"role,optional"`
	Extends        []string         `hcl:"extends,optional"`
	Consumable     *bool            `hcl:"consumable,optional"`
	Resolvable     *bool            `hcl:"resolvable,optional"`
	Declarable     *bool            `hcl:"declarable,optional"`
	ConsistentWith string           `hcl:"consistent_with,optional"`
	Attributes     *AttributesBlock `hcl:"attributes,block"`
	Dependencies   []*Dependency    `hcl:"dependency,block"`
	Excludes       []*Exclude       `hcl:"exclude,block"`
	Artifacts      []*Artifact      `hcl:"artifact,block"`
	Capabilities   []*Capability    `hcl:"capability,block"`
	Variants       []*Variant       `hcl:"variant,block"`
}

// Module represents a `module` block: one coordinate in the module universe,
// with the versions available for selection.
type Module struct {
	Group    string   `hcl:"group,label"`
	Name     string   `hcl:"name,label"`
	Versions []string `hcl:"versions"`
}

// GridConfig is the top-level structure of a grid file.
type GridConfig struct {
	Configurations []*Configuration `hcl:"configuration,block"`
	Modules        []*Module        `hcl:"module,block"`
	Body           hcl.Body         `hcl:",remain"`
}
