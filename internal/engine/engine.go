package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/registry"
)

// Engine converts input values against type descriptors, resolving record
// references through a registry it borrows read access to.
type Engine struct {
	reg *registry.Registry
}

// New creates an engine backed by reg.
func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Convert transforms value into the shape target demands, or fails with an
// error describing the innermost mismatch. Already-typed values pass through
// unchanged, so converting the output of a successful conversion a second
// time yields an equal result.
func (e *Engine) Convert(value any, target descriptor.Type) (any, error) {
	switch target.Kind() {
	case descriptor.Int:
		return convertInt(value, target)
	case descriptor.Float:
		return convertFloat(value, target)
	case descriptor.String:
		return convertString(value, target)
	case descriptor.Bool:
		return convertBool(value, target)
	case descriptor.Date:
		return convertDate(value, target)
	case descriptor.Object:
		if obj, ok := value.(map[string]any); ok {
			return obj, nil
		}
		return nil, &TypeMismatchError{Target: target, Value: value}
	case descriptor.List:
		return e.convertList(value, target)
	case descriptor.Record:
		return e.convertRecord(value, target)
	default:
		return nil, &MalformedTargetError{Target: target}
	}
}

// asFloat widens any numeric input shape to a float64 for coercion checks.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func convertInt(value any, target descriptor.Type) (any, error) {
	// Integer input stays on the integer path: a float64 round-trip loses
	// precision above 2^53 and corrupts values near the int64 boundaries.
	switch n := value.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return nil, &UnparseableValueError{Target: target, Value: value, Reason: "outside the int64 range"}
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, &UnparseableValueError{Target: target, Value: value, Reason: "outside the int64 range"}
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}

	f, ok := asFloat(value)
	if !ok {
		s, isStr := value.(string)
		if !isStr {
			return nil, &TypeMismatchError{Target: target, Value: value}
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &UnparseableValueError{Target: target, Value: value, Reason: "not a numeric string"}
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &UnparseableValueError{Target: target, Value: value, Reason: "not a finite number"}
	}
	// Strict integer check, not truncation.
	if f != math.Trunc(f) {
		return nil, &UnparseableValueError{Target: target, Value: value, Reason: "has a fractional remainder"}
	}
	// math.MaxInt64 rounds up to 2^63 as a float64, so >= excludes every
	// value the int64 conversion cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, &UnparseableValueError{Target: target, Value: value, Reason: "outside the int64 range"}
	}
	return int64(f), nil
}

func convertFloat(value any, target descriptor.Type) (any, error) {
	f, ok := asFloat(value)
	if !ok {
		s, isStr := value.(string)
		if !isStr {
			return nil, &TypeMismatchError{Target: target, Value: value}
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &UnparseableValueError{Target: target, Value: value, Reason: "not a numeric string"}
		}
		f = parsed
	}
	if math.IsNaN(f) {
		return nil, &UnparseableValueError{Target: target, Value: value, Reason: "not a number"}
	}
	return f, nil
}

// convertString accepts only string or numeric input. Numeric input is
// stringified; everything else fails rather than silently serializing
// complex values.
func convertString(value any, target descriptor.Type) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		return v.String(), nil
	}
	if f, ok := asFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return nil, &TypeMismatchError{Target: target, Value: value}
}

func convertBool(value any, target descriptor.Type) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if v == "true" {
			return true, nil
		}
		if v == "false" {
			return false, nil
		}
	}
	return nil, &TypeMismatchError{Target: target, Value: value}
}

// dateLayouts are tried in order for string input.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func convertDate(value any, target descriptor.Type) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, nil
			}
		}
		return nil, &UnparseableValueError{Target: target, Value: value, Reason: "unrecognized timestamp"}
	}
	// Numeric input is epoch milliseconds.
	if f, ok := asFloat(value); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &UnparseableValueError{Target: target, Value: value, Reason: "not a finite timestamp"}
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	return nil, &TypeMismatchError{Target: target, Value: value}
}

// convertList produces a new slice of the same length with every element
// recursively converted, preserving order. A nil input is an explicitly
// nulled list and passes through as nil.
func (e *Engine) convertList(value any, target descriptor.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	in, ok := value.([]any)
	if !ok {
		return nil, &TypeMismatchError{Target: target, Value: value}
	}
	elem := target.Elem()
	out := make([]any, len(in))
	for i, item := range in {
		converted, err := e.Convert(item, elem)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}
