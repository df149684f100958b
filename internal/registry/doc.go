// Package registry is the process-wide store of declared record schemas.
//
// The Registry maps a record id to its merged, inheritance-resolved field
// list. Schemas are declared once during application startup (typically from
// HCL manifests), merged against their parent at declaration time, and are
// immutable afterwards; the conversion engine only ever takes read access.
//
// Declaration order matters: a parent must be declared before any child that
// extends it, which keeps the merge a single-level lookup instead of an
// ancestor walk.
package registry
