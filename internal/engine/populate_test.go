package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/engine"
	"github.com/vk/recast/internal/registry"
	"github.com/vk/recast/internal/validate"
)

func declare(t *testing.T, reg *registry.Registry, id, parent string, fields ...registry.Field) {
	t.Helper()
	require.NoError(t, reg.Declare(id, parent, fields))
}

func TestConvert_RecordPopulation(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	declare(t, reg, "user", "",
		registry.Field{Name: "name", Type: descriptor.StringType},
		registry.Field{Name: "age", Type: descriptor.IntType, Optional: true},
		registry.Field{Name: "role", Type: descriptor.StringType, Default: "member", HasDefault: true},
	)
	e := engine.New(reg)

	t.Run("Success: converts declared fields and applies defaults", func(t *testing.T) {
		t.Parallel()
		got, err := e.Convert(map[string]any{"name": "ada", "age": float64(36)}, descriptor.RecordOf("user"))
		require.NoError(t, err)

		want := map[string]any{"name": "ada", "age": int64(36), "role": "member"}
		require.Empty(t, cmp.Diff(want, got))
	})

	t.Run("Success: missing optional field without default is not materialized", func(t *testing.T) {
		t.Parallel()
		got, err := e.Convert(map[string]any{"name": "ada"}, descriptor.RecordOf("user"))
		require.NoError(t, err)

		record := got.(map[string]any)
		_, present := record["age"]
		require.False(t, present, "the field must be entirely absent, not null")
	})

	t.Run("Success: undeclared input properties are dropped", func(t *testing.T) {
		t.Parallel()
		got, err := e.Convert(map[string]any{"name": "ada", "shell": "/bin/sh"}, descriptor.RecordOf("user"))
		require.NoError(t, err)

		record := got.(map[string]any)
		_, present := record["shell"]
		require.False(t, present)
	})

	t.Run("Success: explicit null for the whole record yields null", func(t *testing.T) {
		t.Parallel()
		got, err := e.Convert(nil, descriptor.RecordOf("user"))
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("Failure: missing required field", func(t *testing.T) {
		t.Parallel()
		_, err := e.Convert(map[string]any{"age": float64(36)}, descriptor.RecordOf("user"))

		var missing *engine.MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "user", missing.Record)
		require.Equal(t, "name", missing.Field)
	})

	t.Run("Failure: explicit null for a required field", func(t *testing.T) {
		t.Parallel()
		_, err := e.Convert(map[string]any{"name": nil}, descriptor.RecordOf("user"))

		var missing *engine.MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "name", missing.Field)
	})

	t.Run("Failure: non-object input for a record target", func(t *testing.T) {
		t.Parallel()
		_, err := e.Convert([]any{}, descriptor.RecordOf("user"))
		var mismatch *engine.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
	})

	t.Run("Failure: unknown record id", func(t *testing.T) {
		t.Parallel()
		_, err := e.Convert(map[string]any{}, descriptor.RecordOf("ghost"))
		var unknown *registry.UnknownRecordError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestConvert_NullHandling(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	declare(t, reg, "address", "",
		registry.Field{Name: "city", Type: descriptor.StringType},
	)
	declare(t, reg, "person", "",
		registry.Field{Name: "address", Type: descriptor.RecordOf("address"), Optional: true},
		registry.Field{Name: "age", Type: descriptor.IntType, Optional: true},
	)
	declare(t, reg, "profile", "",
		registry.Field{Name: "nickname", Type: descriptor.StringType, Default: nil, HasDefault: true},
	)
	e := engine.New(reg)

	t.Run("Success: explicit null into a record reference is materialized as null", func(t *testing.T) {
		t.Parallel()
		got, err := e.Convert(map[string]any{"address": nil}, descriptor.RecordOf("person"))
		require.NoError(t, err)

		record := got.(map[string]any)
		value, present := record["address"]
		require.True(t, present, "an explicit null IS materialized, unlike a missing field")
		require.Nil(t, value)
	})

	t.Run("Failure: explicit null into an int fails", func(t *testing.T) {
		t.Parallel()
		_, err := e.Convert(map[string]any{"age": nil}, descriptor.RecordOf("person"))
		require.Error(t, err)
	})

	t.Run("Failure: a null default is materialized and then converted", func(t *testing.T) {
		t.Parallel()
		// nickname defaults to null, and null is not a valid string.
		_, err := e.Convert(map[string]any{}, descriptor.RecordOf("profile"))
		var mismatch *engine.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
	})
}

func TestConvert_NestedRecords(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	declare(t, reg, "address", "",
		registry.Field{Name: "city", Type: descriptor.StringType},
		registry.Field{Name: "zip", Type: descriptor.StringType, Optional: true},
	)
	declare(t, reg, "person", "",
		registry.Field{Name: "name", Type: descriptor.StringType},
		registry.Field{Name: "home", Type: descriptor.RecordOf("address")},
		registry.Field{Name: "friends", Type: descriptor.ListOf(descriptor.RecordOf("person")), Optional: true},
	)
	e := engine.New(reg)

	t.Run("Success: recursion into nested records and record lists", func(t *testing.T) {
		t.Parallel()
		input := map[string]any{
			"name": "ada",
			"home": map[string]any{"city": "london", "ignored": true},
			"friends": []any{
				map[string]any{"name": "grace", "home": map[string]any{"city": "arlington"}},
			},
		}

		got, err := e.Convert(input, descriptor.RecordOf("person"))
		require.NoError(t, err)

		want := map[string]any{
			"name": "ada",
			"home": map[string]any{"city": "london"},
			"friends": []any{
				map[string]any{"name": "grace", "home": map[string]any{"city": "arlington"}},
			},
		}
		require.Empty(t, cmp.Diff(want, got))
	})

	t.Run("Success: recursion depth follows the input, not the schema", func(t *testing.T) {
		t.Parallel()
		// The person schema references itself through friends; the data's
		// finite depth terminates the recursion.
		depth := 200
		input := map[string]any{"name": "p0", "home": map[string]any{"city": "c"}}
		for i := 1; i < depth; i++ {
			input = map[string]any{
				"name":    fmt.Sprintf("p%d", i),
				"home":    map[string]any{"city": "c"},
				"friends": []any{input},
			}
		}

		_, err := e.Convert(input, descriptor.RecordOf("person"))
		require.NoError(t, err)
	})

	t.Run("Failure: the innermost failure aborts the whole conversion", func(t *testing.T) {
		t.Parallel()
		input := map[string]any{
			"name": "ada",
			"home": map[string]any{"city": "london"},
			"friends": []any{
				map[string]any{"name": "grace", "home": map[string]any{}},
			},
		}

		_, err := e.Convert(input, descriptor.RecordOf("person"))
		var missing *engine.MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		require.Equal(t, "address", missing.Record)
		require.Equal(t, "city", missing.Field)
	})
}

func TestConvert_ValidationPass(t *testing.T) {
	t.Parallel()

	t.Run("Success: trimming validator rewrites the output record", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		declare(t, reg, "user", "",
			registry.Field{Name: "name", Type: descriptor.StringType, Validators: []validate.Validator{
				validate.NonEmptyString(validate.StringOptions{Trim: true}),
			}},
		)

		got, err := engine.New(reg).Convert(map[string]any{"name": "  ada  "}, descriptor.RecordOf("user"))
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "ada"}, got)
	})

	t.Run("Success: skipped optional fields are not validated", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		declare(t, reg, "user", "",
			registry.Field{Name: "bio", Type: descriptor.StringType, Optional: true, Validators: []validate.Validator{
				validate.NonEmptyString(validate.StringOptions{}),
			}},
		)

		_, err := engine.New(reg).Convert(map[string]any{}, descriptor.RecordOf("user"))
		require.NoError(t, err)
	})

	t.Run("Failure: first failing field aborts, later failures unseen", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		declare(t, reg, "point", "",
			registry.Field{Name: "x", Type: descriptor.IntType, Validators: []validate.Validator{validate.Min(0)}},
			registry.Field{Name: "y", Type: descriptor.IntType, Validators: []validate.Validator{validate.Min(0)}},
		)

		_, err := engine.New(reg).Convert(map[string]any{"x": float64(-1), "y": float64(-2)}, descriptor.RecordOf("point"))

		var invalid *engine.ValidationError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "x", invalid.Field, "validation is fail-fast in field order")
	})

	t.Run("Failure: cross-field date ordering", func(t *testing.T) {
		t.Parallel()
		endAfterStart := func(value any, field string, record map[string]any) error {
			end, ok := value.(time.Time)
			if !ok {
				return fmt.Errorf("expected a date value, got %T", value)
			}
			start, ok := record["start"].(time.Time)
			if !ok {
				return fmt.Errorf("expected a date value for start")
			}
			if end.Before(start) {
				return fmt.Errorf("must not precede start")
			}
			return nil
		}

		reg := registry.New()
		declare(t, reg, "booking", "",
			registry.Field{Name: "start", Type: descriptor.DateType},
			registry.Field{Name: "end", Type: descriptor.DateType, Validators: []validate.Validator{endAfterStart}},
		)
		e := engine.New(reg)

		_, err := e.Convert(map[string]any{
			"start": "2024-03-02T00:00:00Z",
			"end":   "2024-03-01T00:00:00Z",
		}, descriptor.RecordOf("booking"))

		var invalid *engine.ValidationError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "booking", invalid.Record)
		require.Equal(t, "end", invalid.Field)

		// Equal timestamps satisfy the check.
		_, err = e.Convert(map[string]any{
			"start": "2024-03-01T00:00:00Z",
			"end":   "2024-03-01T00:00:00Z",
		}, descriptor.RecordOf("booking"))
		require.NoError(t, err)
	})
}

func TestConvert_RecordIdempotence(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	declare(t, reg, "event", "",
		registry.Field{Name: "title", Type: descriptor.StringType, Validators: []validate.Validator{
			validate.NonEmptyString(validate.StringOptions{Trim: true}),
		}},
		registry.Field{Name: "at", Type: descriptor.DateType},
		registry.Field{Name: "codes", Type: descriptor.ListOf(descriptor.IntType), Optional: true},
	)
	e := engine.New(reg)
	target := descriptor.RecordOf("event")

	first, err := e.Convert(map[string]any{
		"title": "  launch  ",
		"at":    "2024-03-01T10:00:00Z",
		"codes": []any{"1", float64(2)},
	}, target)
	require.NoError(t, err)

	second, err := e.Convert(first, target)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second), "re-converting a converted record is the identity")
}
