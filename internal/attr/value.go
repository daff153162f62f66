package attr

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// GetString reads a string-typed attribute from the container. This is the
// typed boundary over the erased accessor: the conversion happens here, not
// inside the container.
func GetString(c *Container, key Key) (string, bool) {
	v, ok := c.Get(key)
	if !ok || v.IsNull() {
		return "", false
	}
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetString stores a string value for the key. Errors only if the key's
// declared type cannot represent strings.
func SetString(c *Container, key Key, value string) error {
	return c.Set(key, cty.StringVal(value))
}
