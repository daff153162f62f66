// Package artifact models the declared output artifacts a configuration or
// variant exposes to consumers. Producing the files themselves is the build
// execution layer's job; this package only carries the declaration.
package artifact

import "strings"

// Artifact describes one declared output file.
type Artifact struct {
	// Name is the artifact's base name, without extension or classifier.
	Name string
	// Type categorises the artifact's format, e.g. "jar", "zip", "directory".
	Type string
	// Classifier distinguishes sibling artifacts of one module, e.g.
	// "sources" or "docs". Empty for the primary artifact.
	Classifier string
	// File is the declared output path, relative to the project.
	File string
}

// FileName returns the conventional file name assembled from the artifact's
// parts, used when File is not set explicitly.
func (a Artifact) FileName() string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	if a.Classifier != "" {
		sb.WriteString("-")
		sb.WriteString(a.Classifier)
	}
	if a.Type != "" {
		sb.WriteString(".")
		sb.WriteString(a.Type)
	}
	return sb.String()
}
