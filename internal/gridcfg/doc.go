// Package gridcfg defines the format-agnostic declaration model for a
// dependency grid, along with the Loader interface for format-specific
// front ends. The HCL implementation lives in internal/hcl; everything past
// the loader (registry, session, resolver) consumes only this model.
package gridcfg
