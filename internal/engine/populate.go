package engine

import (
	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/registry"
)

// convertRecord resolves the target's schema and populates an output record
// from the input object. A nil input is an explicitly nulled record, which
// is distinct from a missing one, and passes through as nil.
func (e *Engine) convertRecord(value any, target descriptor.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	input, ok := value.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Target: target, Value: value}
	}

	schema, err := e.reg.Resolve(target.RecordID())
	if err != nil {
		return nil, err
	}

	fields := schema.Fields()
	out := make(map[string]any, len(fields))

	// Field population, in merged field order. Input properties not
	// declared in the schema are never copied, which is how untrusted
	// extra fields get dropped.
	for _, f := range fields {
		raw, present := input[f.Name]

		if (!present || raw == nil) && f.HasDefault {
			raw = f.Default
			present = true
		}

		if raw == nil {
			if !f.Optional {
				return nil, &MissingRequiredFieldError{Record: schema.ID, Field: f.Name}
			}
			if !present {
				// Optional and absent with no default: the field is not
				// materialized on the output record at all.
				continue
			}
			// Explicitly null (or defaulted to null): materialize and let
			// conversion decide whether the target accepts null.
		}

		converted, err := e.Convert(raw, f.Type)
		if err != nil {
			return nil, err
		}
		out[f.Name] = converted
	}

	if err := runValidators(schema.ID, fields, out); err != nil {
		return nil, err
	}
	return out, nil
}

// runValidators is the validation pass over a fully populated record.
// Validators run per field in schema order and receive the whole record, so
// cross-field checks can read sibling values. The first failure aborts the
// conversion; failures are never aggregated.
func runValidators(recordID string, fields []registry.Field, out map[string]any) error {
	for _, f := range fields {
		if len(f.Validators) == 0 {
			continue
		}
		value, materialized := out[f.Name]
		if !materialized {
			// Skipped optional fields are not validated.
			continue
		}
		for _, check := range f.Validators {
			if err := check(value, f.Name, out); err != nil {
				return &ValidationError{Record: recordID, Field: f.Name, Value: out[f.Name], Reason: err.Error()}
			}
			// A validator may normalize the value in place.
			value = out[f.Name]
		}
	}
	return nil
}
