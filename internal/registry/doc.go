// Package registry holds the session's configuration container: every
// configuration declared for a build, indexed by name, created in
// declaration order and locked together when build-script evaluation ends.
package registry
