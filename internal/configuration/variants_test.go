package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/artifact"
	"github.com/vk/depgrid/internal/attr"
	"github.com/vk/depgrid/internal/capability"
)

// recordingVisitor captures visitor callbacks in arrival order.
type recordingVisitor struct {
	calls []recordedCall
}

type recordedCall struct {
	kind        string
	name        string
	displayName string
	attributes  attr.Immutable
	artifacts   []artifact.Artifact
}

func (r *recordingVisitor) VisitArtifacts(artifacts []artifact.Artifact) {
	r.calls = append(r.calls, recordedCall{kind: "artifacts", artifacts: artifacts})
}

func (r *recordingVisitor) VisitOwnVariant(displayName string, attributes attr.Immutable, _ []capability.Capability, artifacts []artifact.Artifact) {
	r.calls = append(r.calls, recordedCall{kind: "own", displayName: displayName, attributes: attributes, artifacts: artifacts})
}

func (r *recordingVisitor) VisitChildVariant(name, displayName string, attributes attr.Immutable, _ []capability.Capability, artifacts []artifact.Artifact) {
	r.calls = append(r.calls, recordedCall{kind: "child", name: name, displayName: displayName, attributes: attributes, artifacts: artifacts})
}

func TestCollectVariantsOwnThenChildren(t *testing.T) {
	usage := attr.StringKey("usage")
	c := New("api", RoleConsumable)
	require.NoError(t, c.SetAttribute(usage, cty.StringVal("api")))
	require.NoError(t, c.AddArtifact(artifact.Artifact{Name: "lib", Type: "jar"}))

	sources, err := c.RegisterChildVariant("sources")
	require.NoError(t, err)
	require.NoError(t, sources.SetAttribute(usage, cty.StringVal("sources")))
	require.NoError(t, sources.AddArtifact(artifact.Artifact{Name: "lib", Type: "jar", Classifier: "sources"}))

	docs, err := c.RegisterChildVariant("docs")
	require.NoError(t, err)
	require.NoError(t, docs.SetAttribute(usage, cty.StringVal("docs")))

	v := &recordingVisitor{}
	c.CollectVariants(v)

	require.Len(t, v.calls, 3)

	own := v.calls[0]
	assert.Equal(t, "own", own.kind)
	assert.Equal(t, "configuration 'api'", own.displayName)
	val, ok := own.attributes.Get(usage)
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("api"), val)
	require.Len(t, own.artifacts, 1)
	assert.Equal(t, "lib.jar", own.artifacts[0].FileName())

	// Children in declaration order.
	assert.Equal(t, "child", v.calls[1].kind)
	assert.Equal(t, "sources", v.calls[1].name)
	val, ok = v.calls[1].attributes.Get(usage)
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("sources"), val)

	assert.Equal(t, "child", v.calls[2].kind)
	assert.Equal(t, "docs", v.calls[2].name)
}

func TestCollectVariantsNotConsumable(t *testing.T) {
	c := New("deps", RoleResolvable)
	require.NoError(t, c.AddArtifact(artifact.Artifact{Name: "out", Type: "zip"}))

	v := &recordingVisitor{}
	c.CollectVariants(v)

	require.Len(t, v.calls, 1)
	assert.Equal(t, "artifacts", v.calls[0].kind)
	require.Len(t, v.calls[0].artifacts, 1)
	assert.Equal(t, "out.zip", v.calls[0].artifacts[0].FileName())
}

func TestConvertToOutgoingVariantIsLazy(t *testing.T) {
	usage := attr.StringKey("usage")
	c := New("api", RoleConsumable)
	require.NoError(t, c.SetAttribute(usage, cty.StringVal("api")))

	view := c.ConvertToOutgoingVariant()
	assert.Equal(t, "configuration 'api'", view.DisplayName())

	// The view reads live state: mutations made after conversion are seen.
	require.NoError(t, c.AddArtifact(artifact.Artifact{Name: "lib", Type: "jar"}))
	require.NoError(t, c.AddCapability(capability.Capability{Group: "org.example", Name: "feature"}))

	assert.Len(t, view.Artifacts(), 1)
	require.Len(t, view.Capabilities(), 1)
	assert.Equal(t, "org.example:feature", view.Capabilities()[0].String())

	val, ok := view.Attributes().Get(usage)
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("api"), val)
}

func TestChildVariantMutationGuard(t *testing.T) {
	c := New("api", RoleConsumable)
	require.NoError(t, c.SetAttribute(attr.StringKey("usage"), cty.StringVal("api")))
	sources, err := c.RegisterChildVariant("sources")
	require.NoError(t, err)
	require.NoError(t, sources.SetAttribute(attr.StringKey("usage"), cty.StringVal("sources")))

	require.Empty(t, c.PreventFromFurtherMutationLenient())

	// Child variants are locked together with their parent.
	assert.Error(t, sources.SetAttribute(attr.StringKey("usage"), cty.StringVal("other")))
	assert.Error(t, sources.AddArtifact(artifact.Artifact{Name: "x"}))
	assert.Error(t, sources.AddCapability(capability.Capability{Group: "g", Name: "n"}))
	assert.Equal(t, "variant 'sources' of configuration 'api'", sources.DisplayName())
}
