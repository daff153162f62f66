package configuration

import "fmt"

// InternalState tracks how far the resolver has taken a configuration.
// States are ordered; a configuration's state only ever increases.
type InternalState int32

const (
	// Unresolved is the initial state of every configuration.
	Unresolved InternalState = iota
	// BuildDependenciesResolved means the task dependencies of the
	// configuration's inputs have been computed.
	BuildDependenciesResolved
	// GraphResolved means the dependency graph has been resolved.
	GraphResolved
	// ArtifactsResolved means the resolved artifacts have been materialized.
	// Terminal for the session.
	ArtifactsResolved
)

// String returns the state's name.
func (s InternalState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case BuildDependenciesResolved:
		return "build-dependencies-resolved"
	case GraphResolved:
		return "graph-resolved"
	case ArtifactsResolved:
		return "artifacts-resolved"
	default:
		return fmt.Sprintf("InternalState(%d)", int32(s))
	}
}
