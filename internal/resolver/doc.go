// Package resolver selects concrete module versions for every resolvable
// configuration in a container. Configurations resolve concurrently on a
// worker pool; configurations pinned to another configuration's result wait
// until their source has resolved.
package resolver
