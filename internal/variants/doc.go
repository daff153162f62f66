// Package variants provides the uniform, visitable representation of a
// configuration's outgoing outputs: its base artifacts, the configuration
// itself as a selectable variant, and any child variants it declares.
//
// Publishing and reporting tools consume this package instead of reaching
// into configurations directly. Views handed out here are lazy: they read
// live configuration state at call time and must be treated as
// snapshots-at-read-time, never cached truth.
package variants
