// Package attr models the typed attribute dimensions used to describe and
// select configuration variants (usage, format, and so on).
//
// An attribute key carries a runtime type tag (a cty.Type); the container
// stores every value behind a single erased accessor returning cty.Value.
// Typed call sites convert at their own boundary via the helpers in value.go
// rather than inside the container, so the container itself stays uniform.
//
// Containers are mutable while a configuration is being declared and are
// snapshotted into an Immutable view when read for matching or reporting.
package attr
