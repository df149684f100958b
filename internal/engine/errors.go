package engine

import (
	"fmt"

	"github.com/vk/recast/internal/descriptor"
)

// MalformedTargetError reports a Convert call against an invalid type
// descriptor. Registry-declared schemas are validated at declaration time,
// so this only surfaces for descriptors constructed by hand.
type MalformedTargetError struct {
	Target descriptor.Type
}

func (e *MalformedTargetError) Error() string {
	return fmt.Sprintf("malformed type descriptor %s", e.Target.FriendlyName())
}

// TypeMismatchError reports input of the wrong kind for the target type,
// e.g. a bool offered to an int target or a scalar offered to a list.
type TypeMismatchError struct {
	Target descriptor.Type
	Value  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot convert %T value %v to %s", e.Value, e.Value, e.Target.FriendlyName())
}

// UnparseableValueError reports input of an acceptable kind whose content
// could not be interpreted, e.g. a non-numeric string offered to a numeric
// target or an unrecognizable date string.
type UnparseableValueError struct {
	Target descriptor.Type
	Value  any
	Reason string
}

func (e *UnparseableValueError) Error() string {
	return fmt.Sprintf("cannot parse %v as %s: %s", e.Value, e.Target.FriendlyName(), e.Reason)
}

// MissingRequiredFieldError reports a required record field that was absent
// (or null) with no default to substitute.
type MissingRequiredFieldError struct {
	Record string
	Field  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("record %q: required field %q is missing", e.Record, e.Field)
}

// ValidationError reports the first validator failure on a fully populated
// record. Validation is fail-fast: one failing field aborts the conversion.
type ValidationError struct {
	Record string
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %q, field %q: invalid value %v: %s", e.Record, e.Field, e.Value, e.Reason)
}
