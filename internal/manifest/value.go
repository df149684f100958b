package manifest

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ctyToNative lowers an evaluated HCL literal into the plain Go shapes the
// conversion engine works with: nil, bool, string, float64, []any and
// map[string]any. Manifest defaults must be literals, so the full cty type
// system is not needed here.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case t == cty.Bool:
		return v.True(), nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported literal of type %s", t.FriendlyName())
	}
}
