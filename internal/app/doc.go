// Package app wires the application together: it loads grid declarations,
// builds a session, locks the configuration container, resolves versions and
// renders the outgoing-variant report.
package app
