// Package report builds the human-facing view of a configuration's outgoing
// variants: immutable attribute snapshots plus a YAML-serializable report
// model assembled through the variant visitor.
//
// Everything here is a snapshot-at-read-time. A report captured before a
// configuration mutates does not track the change, and never holds a
// back-reference to the container it was read from.
package report
