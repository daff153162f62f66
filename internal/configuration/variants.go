package configuration

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
	"github.com/vk/depgrid/internal/variants"
)

// ChildVariant is a secondary variant declared under a configuration, with
// its own attributes, capabilities and artifacts. Mutation goes through the
// parent configuration's mutation guard.
type ChildVariant struct {
	parent      *Configuration
	name        string
	displayName string
	attributes  *attr.Container

	capabilities []capability.Capability
	artifacts    []artifact.Artifact
}

// RegisterChildVariant declares a new child variant on the configuration.
// Variants are visited in registration order.
func (c *Configuration) RegisterChildVariant(name string) (*ChildVariant, error) {
	if err := c.beforeMutate(MutationAttributes); err != nil {
		return nil, err
	}
	v := &ChildVariant{
		parent:      c,
		name:        name,
		displayName: fmt.Sprintf("variant '%s' of %s", name, c.displayName),
		attributes:  attr.NewContainer(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.childVariants = append(c.childVariants, v)
	return v, nil
}

// Name returns the variant's declared name.
func (v *ChildVariant) Name() string { return v.name }

// DisplayName returns the variant's diagnostic name.
func (v *ChildVariant) DisplayName() string { return v.displayName }

// SetAttribute records an attribute on the variant.
func (v *ChildVariant) SetAttribute(key attr.Key, value cty.Value) error {
	if err := v.parent.beforeMutate(MutationAttributes); err != nil {
		return err
	}
	return v.attributes.Set(key, value)
}

// AddArtifact declares an output artifact on the variant.
func (v *ChildVariant) AddArtifact(a artifact.Artifact) error {
	if err := v.parent.beforeMutate(MutationArtifacts); err != nil {
		return err
	}
	v.parent.mu.Lock()
	defer v.parent.mu.Unlock()
	v.artifacts = append(v.artifacts, a)
	return nil
}

// AddCapability declares a capability the variant carries.
func (v *ChildVariant) AddCapability(cap capability.Capability) error {
	if err := v.parent.beforeMutate(MutationArtifacts); err != nil {
		return err
	}
	v.parent.mu.Lock()
	defer v.parent.mu.Unlock()
	v.capabilities = append(v.capabilities, cap)
	return nil
}

// Attributes returns a snapshot of the variant's attributes.
func (v *ChildVariant) Attributes() attr.Immutable { return v.attributes.Immutable() }

// Capabilities returns the variant's capabilities.
func (v *ChildVariant) Capabilities() []capability.Capability {
	v.parent.mu.Lock()
	defer v.parent.mu.Unlock()
	out := make([]capability.Capability, len(v.capabilities))
	copy(out, v.capabilities)
	return out
}

// Artifacts returns the variant's artifacts in declaration order.
func (v *ChildVariant) Artifacts() []artifact.Artifact {
	v.parent.mu.Lock()
	defer v.parent.mu.Unlock()
	out := make([]artifact.Artifact, len(v.artifacts))
	copy(out, v.artifacts)
	return out
}

// ChildVariants returns the registered child variants in registration order.
func (c *Configuration) ChildVariants() []*ChildVariant {
	return c.childVariantsSnapshot()
}

func (c *Configuration) childVariantsSnapshot() []*ChildVariant {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ChildVariant, len(c.childVariants))
	copy(out, c.childVariants)
	return out
}

// CollectVariants visits the configuration's outgoing variants. A consumable
// configuration presents itself as the own-variant; one that is not
// consumable only presents its base artifacts. Child variants follow in
// declaration order.
func (c *Configuration) CollectVariants(visitor variants.Visitor) {
	if c.IsCanBeConsumed() {
		visitor.VisitOwnVariant(c.displayName, c.attributes.Immutable(), c.Capabilities(), c.Artifacts())
	} else {
		visitor.VisitArtifacts(c.Artifacts())
	}
	for _, v := range c.childVariantsSnapshot() {
		visitor.VisitChildVariant(v.name, v.displayName, v.Attributes(), v.Capabilities(), v.Artifacts())
	}
}

// ConvertToOutgoingVariant returns the own-variant projection as a lazy
// view: every read goes to the live configuration at call time, so repeated
// reads may differ while the configuration can still mutate.
func (c *Configuration) ConvertToOutgoingVariant() variants.OutgoingVariant {
	return variants.Lazy{
		DisplayNameFn:  func() string { return c.displayName },
		AttributesFn:   func() attr.Immutable { return c.attributes.Immutable() },
		CapabilitiesFn: c.Capabilities,
		ArtifactsFn:    c.Artifacts,
	}
}
