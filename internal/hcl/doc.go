// Package hcl implements the gridcfg.Loader interface for HCL grid files.
package hcl
