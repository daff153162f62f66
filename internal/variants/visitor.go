package variants

import (
	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
)

// Visitor receives a configuration's variants in a fixed order: the base
// artifacts or the own-variant first (at most one of the two is meaningful
// per configuration), then each child variant in declaration order.
type Visitor interface {
	// VisitArtifacts receives the artifacts used when the configuration is
	// consumed directly rather than selected as a named variant.
	VisitArtifacts(artifacts []artifact.Artifact)

	// VisitOwnVariant receives the configuration itself exposed as a
	// selectable variant. Not called for configurations that are not
	// directly selectable.
	VisitOwnVariant(displayName string, attributes attr.Immutable, capabilities []capability.Capability, artifacts []artifact.Artifact)

	// VisitChildVariant receives one declared child (secondary) variant.
	VisitChildVariant(name, displayName string, attributes attr.Immutable, capabilities []capability.Capability, artifacts []artifact.Artifact)
}
