// This file translates a single `field` block body into a registry.Field,
// including the mapping from validator attributes to the validate built-ins.

package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/registry"
	"github.com/vk/recast/internal/validate"
)

// fieldBodySchema is the HCL schema for the body of a `field` block.
// `type` is required, but its presence is checked manually to give a better
// error message than the decoder's default.
var fieldBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "optional"},
		{Name: "default"},
		{Name: "min"},
		{Name: "max"},
		{Name: "enum"},
		{Name: "non_empty"},
		{Name: "trim"},
		{Name: "min_length"},
		{Name: "max_length"},
	},
}

// translateField decodes one field block into a registry.Field.
func translateField(ctx context.Context, recordID, name string, body hcl.Body) (registry.Field, error) {
	fail := func(format string, args ...any) (registry.Field, error) {
		prefix := fmt.Sprintf("record %q, field %q: ", recordID, name)
		return registry.Field{}, fmt.Errorf(prefix+format, args...)
	}

	content, diags := body.Content(fieldBodySchema)
	if diags.HasErrors() {
		return fail("%s", diags.Error())
	}
	attrs := content.Attributes

	typeAttr, ok := attrs["type"]
	if !ok {
		return fail("the 'type' attribute is required")
	}
	fieldType, err := typeExprToDescriptor(ctx, typeAttr.Expr)
	if err != nil {
		return fail("%s", err)
	}

	field := registry.Field{Name: name, Type: fieldType}

	if attr, ok := attrs["optional"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &field.Optional); diags.HasErrors() {
			return fail("invalid 'optional' attribute: %s", diags.Error())
		}
	}

	if attr, ok := attrs["default"]; ok {
		// Defaults must be literals, so evaluation gets no context.
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fail("invalid default value: %s", diags.Error())
		}
		native, err := ctyToNative(val)
		if err != nil {
			return fail("invalid default value: %s", err)
		}
		field.Default = native
		field.HasDefault = true
	}

	validators, err := translateValidators(recordID, name, fieldType, attrs)
	if err != nil {
		return registry.Field{}, err
	}
	field.Validators = validators

	return field, nil
}

// translateValidators maps validator attributes onto the validate built-ins.
// Attribute applicability is checked against the declared field type so that
// author mistakes surface at declaration time, not during conversion.
func translateValidators(recordID, name string, fieldType descriptor.Type, attrs hcl.Attributes) ([]validate.Validator, error) {
	fail := func(format string, args ...any) ([]validate.Validator, error) {
		prefix := fmt.Sprintf("record %q, field %q: ", recordID, name)
		return nil, fmt.Errorf(prefix+format, args...)
	}

	numeric := fieldType.Kind() == descriptor.Int || fieldType.Kind() == descriptor.Float
	var validators []validate.Validator

	var minBound, maxBound float64
	_, hasMin := attrs["min"]
	_, hasMax := attrs["max"]
	if hasMin {
		if !numeric {
			return fail("'min' applies only to int and float fields")
		}
		if diags := gohcl.DecodeExpression(attrs["min"].Expr, nil, &minBound); diags.HasErrors() {
			return fail("invalid 'min' attribute: %s", diags.Error())
		}
	}
	if hasMax {
		if !numeric {
			return fail("'max' applies only to int and float fields")
		}
		if diags := gohcl.DecodeExpression(attrs["max"].Expr, nil, &maxBound); diags.HasErrors() {
			return fail("invalid 'max' attribute: %s", diags.Error())
		}
	}
	switch {
	case hasMin && hasMax:
		validators = append(validators, validate.Between(minBound, maxBound))
	case hasMin:
		validators = append(validators, validate.Min(minBound))
	case hasMax:
		validators = append(validators, validate.Max(maxBound))
	}

	if attr, ok := attrs["enum"]; ok {
		if !numeric {
			return fail("'enum' applies only to int and float fields")
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fail("invalid 'enum' attribute: %s", diags.Error())
		}
		if !val.CanIterateElements() {
			return fail("'enum' must be a list of numbers")
		}
		var allowed []float64
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if !ev.Type().Equals(cty.Number) {
				return fail("'enum' members must be numeric; string-valued enumerations are not supported")
			}
			f, _ := ev.AsBigFloat().Float64()
			allowed = append(allowed, f)
		}
		validators = append(validators, validate.OneOf(allowed...))
	}

	var nonEmpty bool
	if attr, ok := attrs["non_empty"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &nonEmpty); diags.HasErrors() {
			return fail("invalid 'non_empty' attribute: %s", diags.Error())
		}
	}

	var opts validate.StringOptions
	if attr, ok := attrs["trim"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &opts.Trim); diags.HasErrors() {
			return fail("invalid 'trim' attribute: %s", diags.Error())
		}
	}
	if attr, ok := attrs["min_length"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &opts.MinLen); diags.HasErrors() {
			return fail("invalid 'min_length' attribute: %s", diags.Error())
		}
	}
	if attr, ok := attrs["max_length"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &opts.MaxLen); diags.HasErrors() {
			return fail("invalid 'max_length' attribute: %s", diags.Error())
		}
	}

	hasStringOpts := opts.Trim || opts.MinLen > 0 || opts.MaxLen > 0
	switch {
	case nonEmpty && fieldType.Kind() == descriptor.String:
		validators = append(validators, validate.NonEmptyString(opts))
	case nonEmpty && fieldType.Kind() == descriptor.List:
		if hasStringOpts {
			return fail("'trim', 'min_length' and 'max_length' apply only to string fields")
		}
		validators = append(validators, validate.NonEmptyList())
	case nonEmpty:
		return fail("'non_empty' applies only to string and list fields")
	case hasStringOpts:
		return fail("'trim', 'min_length' and 'max_length' require 'non_empty = true' on a string field")
	}

	return validators, nil
}
