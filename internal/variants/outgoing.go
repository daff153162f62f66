package variants

import (
	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
)

// OutgoingVariant is a read-only projection of a configuration or one of its
// child variants. Implementations may recompute their answers from live
// state on every call; callers must not assume consistency across repeated
// reads while the underlying configuration can still mutate.
type OutgoingVariant interface {
	DisplayName() string
	Attributes() attr.Immutable
	Capabilities() []capability.Capability
	Artifacts() []artifact.Artifact
}

// Lazy is an OutgoingVariant that defers every read to the supplied
// functions. It is how configurations expose themselves without copying
// state eagerly.
type Lazy struct {
	DisplayNameFn  func() string
	AttributesFn   func() attr.Immutable
	CapabilitiesFn func() []capability.Capability
	ArtifactsFn    func() []artifact.Artifact
}

func (l Lazy) DisplayName() string                  { return l.DisplayNameFn() }
func (l Lazy) Attributes() attr.Immutable           { return l.AttributesFn() }
func (l Lazy) Capabilities() []capability.Capability { return l.CapabilitiesFn() }
func (l Lazy) Artifacts() []artifact.Artifact       { return l.ArtifactsFn() }
