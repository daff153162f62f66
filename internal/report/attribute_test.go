package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/attr"
)

func TestFromAttributeInContainer(t *testing.T) {
	usage := attr.StringKey("usage")
	container := attr.NewContainer()
	require.NoError(t, attr.SetString(container, usage, "api"))

	classified := make(map[string]cty.Value)
	classifier := ClassifierFunc(func(key attr.Key, value cty.Value) bool {
		classified[key.Name()] = value
		return key.Name() == "usage"
	})

	snap := FromAttributeInContainer(usage, container, classifier)
	assert.Equal(t, "usage", snap.Name())
	assert.Equal(t, cty.StringVal("api"), snap.Value())
	assert.True(t, snap.IsIncubating())
	assert.Equal(t, cty.StringVal("api"), classified["usage"], "classifier sees the captured value")
}

func TestFromAttributeInContainerAbsent(t *testing.T) {
	missing := attr.StringKey("category")
	container := attr.NewContainer()

	classifier := ClassifierFunc(func(key attr.Key, value cty.Value) bool {
		// The classifier is consulted with the null value, same as present
		// attributes.
		return value.IsNull()
	})

	snap := FromAttributeInContainer(missing, container, classifier)
	assert.Equal(t, "category", snap.Name())
	assert.True(t, snap.Value().IsNull())
	assert.True(t, snap.IsIncubating())
}

func TestSnapshotDoesNotTrackContainer(t *testing.T) {
	usage := attr.StringKey("usage")
	container := attr.NewContainer()
	require.NoError(t, attr.SetString(container, usage, "api"))

	snap := FromAttributeInContainer(usage, container, StableClassifier)
	require.NoError(t, attr.SetString(container, usage, "runtime"))

	assert.Equal(t, cty.StringVal("api"), snap.Value())
}

func TestRenderValue(t *testing.T) {
	assert.Equal(t, "null", renderValue(cty.NullVal(cty.String)))
	assert.Equal(t, "null", renderValue(cty.NilVal))
	assert.Equal(t, "api", renderValue(cty.StringVal("api")))
	assert.Equal(t, "8", renderValue(cty.NumberIntVal(8)))
	assert.Equal(t, "true", renderValue(cty.True))
	assert.Equal(t, "false", renderValue(cty.False))
}
