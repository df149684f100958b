// Package engine implements the recursive conversion of loosely-typed input
// values (the shapes produced by JSON decoding: nil, bool, string, numbers,
// []any, map[string]any) into the strongly-typed values a descriptor
// demands.
//
// Convert dispatches on the target descriptor's kind, recursing into list
// elements and record fields. Record targets are populated field by field
// against the merged schema resolved from the registry, then run through
// each field's validators. Any failure at any depth aborts the whole
// conversion with the innermost error; the engine never returns a partially
// populated record.
//
// The engine is synchronous and allocates its own output values, so calls
// are independent and safe to run concurrently against a registry that is
// no longer being mutated.
package engine
