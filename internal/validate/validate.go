// Package validate defines the validator contract run against fully
// populated records, plus the built-in validator factories.
//
// A Validator inspects one field of a record after every field has been
// converted, so cross-field checks (e.g. "end must not precede start") can
// read sibling values directly off the record. Validators are pure with one
// deliberate exception: a validator may write a normalized value back into
// record[field], which is how the trimming string validator rewrites the
// trimmed string in place.
package validate

import (
	"fmt"
	"strings"
)

// Validator checks the named field on a populated record. A nil return
// means the value passed; a non-nil error carries the failure reason.
type Validator func(value any, field string, record map[string]any) error

// number extracts a comparable float from the value shapes the conversion
// engine produces for numeric targets.
func number(value any) (float64, bool) {
	switch n := value.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Min returns a validator enforcing a numeric lower bound (inclusive).
func Min(bound float64) Validator {
	return func(value any, field string, record map[string]any) error {
		n, ok := number(value)
		if !ok {
			return fmt.Errorf("expected a numeric value, got %T", value)
		}
		if n < bound {
			return fmt.Errorf("must be at least %v, got %v", bound, n)
		}
		return nil
	}
}

// Max returns a validator enforcing a numeric upper bound (inclusive).
func Max(bound float64) Validator {
	return func(value any, field string, record map[string]any) error {
		n, ok := number(value)
		if !ok {
			return fmt.Errorf("expected a numeric value, got %T", value)
		}
		if n > bound {
			return fmt.Errorf("must be at most %v, got %v", bound, n)
		}
		return nil
	}
}

// Between returns a validator enforcing an inclusive numeric range.
func Between(lo, hi float64) Validator {
	return func(value any, field string, record map[string]any) error {
		n, ok := number(value)
		if !ok {
			return fmt.Errorf("expected a numeric value, got %T", value)
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %v and %v, got %v", lo, hi, n)
		}
		return nil
	}
}

// OneOf returns a membership validator over a numeric enumeration.
// String-valued enumerations are not supported; the manifest layer rejects
// them at declaration time.
func OneOf(allowed ...float64) Validator {
	set := make(map[float64]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(value any, field string, record map[string]any) error {
		n, ok := number(value)
		if !ok {
			return fmt.Errorf("expected a numeric value, got %T", value)
		}
		if _, ok := set[n]; !ok {
			return fmt.Errorf("%v is not one of the allowed values", n)
		}
		return nil
	}
}

// StringOptions configures NonEmptyString. Zero-valued limits are ignored.
type StringOptions struct {
	// Trim strips surrounding whitespace before any check and writes the
	// trimmed string back into the record.
	Trim   bool
	MinLen int
	MaxLen int
}

// NonEmptyString returns a validator rejecting empty strings, with optional
// trim-then-check and length bounds. When opts.Trim is set the validator
// mutates record[field], replacing the value with its trimmed form.
func NonEmptyString(opts StringOptions) Validator {
	return func(value any, field string, record map[string]any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected a string value, got %T", value)
		}
		if opts.Trim {
			s = strings.TrimSpace(s)
			record[field] = s
		}
		if s == "" {
			return fmt.Errorf("must not be empty")
		}
		if opts.MinLen > 0 && len(s) < opts.MinLen {
			return fmt.Errorf("must be at least %d characters, got %d", opts.MinLen, len(s))
		}
		if opts.MaxLen > 0 && len(s) > opts.MaxLen {
			return fmt.Errorf("must be at most %d characters, got %d", opts.MaxLen, len(s))
		}
		return nil
	}
}

// NonEmptyList returns a validator rejecting empty sequences.
func NonEmptyList() Validator {
	return func(value any, field string, record map[string]any) error {
		seq, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected a list value, got %T", value)
		}
		if len(seq) == 0 {
			return fmt.Errorf("must contain at least one element")
		}
		return nil
	}
}
