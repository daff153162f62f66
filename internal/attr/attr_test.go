package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestContainerSetGet(t *testing.T) {
	c := NewContainer()
	usage := StringKey("usage")

	_, ok := c.Get(usage)
	assert.False(t, ok)

	require.NoError(t, c.Set(usage, cty.StringVal("api")))
	v, ok := c.Get(usage)
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("api"), v)

	// Setting again overwrites.
	require.NoError(t, c.Set(usage, cty.StringVal("runtime")))
	v, _ = c.Get(usage)
	assert.Equal(t, cty.StringVal("runtime"), v)
}

func TestContainerConvertsToKeyType(t *testing.T) {
	c := NewContainer()
	count := NewKey("count", cty.Number)

	// Strings holding numerals convert to cty.Number.
	require.NoError(t, c.Set(count, cty.StringVal("42")))
	v, ok := c.Get(count)
	require.True(t, ok)
	assert.Equal(t, cty.NumberIntVal(42), v)

	// Non-numeric strings do not.
	err := c.Set(count, cty.StringVal("not-a-number"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")
}

func TestContainerKeysSorted(t *testing.T) {
	c := NewContainer()
	require.NoError(t, SetString(c, StringKey("usage"), "api"))
	require.NoError(t, SetString(c, StringKey("category"), "library"))
	require.NoError(t, SetString(c, StringKey("format"), "classes"))

	names := make([]string, 0, 3)
	for _, k := range c.Keys() {
		names = append(names, k.Name())
	}
	assert.Equal(t, []string{"category", "format", "usage"}, names)
}

func TestImmutableSnapshotIsolation(t *testing.T) {
	c := NewContainer()
	usage := StringKey("usage")
	require.NoError(t, SetString(c, usage, "api"))

	snap := c.Immutable()
	require.NoError(t, SetString(c, usage, "runtime"))
	require.NoError(t, SetString(c, StringKey("format"), "jar"))

	// The snapshot still reflects the state at capture time.
	v, ok := snap.Get(usage)
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("api"), v)
	assert.Equal(t, 1, snap.Len())
}

func TestTypedBoundaryHelpers(t *testing.T) {
	c := NewContainer()
	usage := StringKey("usage")

	_, ok := GetString(c, usage)
	assert.False(t, ok)

	require.NoError(t, SetString(c, usage, "sources"))
	s, ok := GetString(c, usage)
	require.True(t, ok)
	assert.Equal(t, "sources", s)
}
