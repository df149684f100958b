// This file parses HCL type expressions (e.g. `string`, `list(int)`,
// `record(user)`) into their descriptor.Type equivalents.

package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/recast/internal/ctxlog"
	"github.com/vk/recast/internal/descriptor"
)

// typeExprToDescriptor converts an HCL type expression into a descriptor.
// Keywords name the scalar targets; `list(elem)` and `record(name)` are the
// two constructors.
func typeExprToDescriptor(ctx context.Context, expr hcl.Expression) (descriptor.Type, error) {
	logger := ctxlog.FromContext(ctx)

	// A type switch over the concrete hclsyntax expression types is the
	// reliable way to tell keywords from constructor calls.
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return descriptor.Type{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		keyword := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a scalar keyword.", "keyword", keyword)
		switch keyword {
		case "int":
			return descriptor.IntType, nil
		case "float":
			return descriptor.FloatType, nil
		case "string":
			return descriptor.StringType, nil
		case "bool":
			return descriptor.BoolType, nil
		case "date":
			return descriptor.DateType, nil
		case "object":
			return descriptor.ObjectType, nil
		default:
			return descriptor.Type{}, fmt.Errorf("unknown type keyword %q", keyword)
		}

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a constructor call.", "call", v.Name)
		if len(v.Args) != 1 {
			return descriptor.Type{}, fmt.Errorf("the %s() type constructor requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		switch v.Name {
		case "list":
			elem, err := typeExprToDescriptor(ctx, v.Args[0])
			if err != nil {
				return descriptor.Type{}, fmt.Errorf("in list element type: %w", err)
			}
			return descriptor.ListOf(elem), nil
		case "record":
			id, err := recordName(v.Args[0])
			if err != nil {
				return descriptor.Type{}, err
			}
			return descriptor.RecordOf(id), nil
		default:
			return descriptor.Type{}, fmt.Errorf("unknown type constructor %q", v.Name)
		}

	default:
		return descriptor.Type{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// recordName extracts the record id from a record() argument, accepting a
// bare identifier like `record(user)` or a quoted string like
// `record("user")`.
func recordName(expr hclsyntax.Expression) (string, error) {
	switch arg := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(arg.Traversal) == 1 {
			return arg.Traversal.RootName(), nil
		}
	case *hclsyntax.TemplateExpr:
		if len(arg.Parts) == 1 {
			if lit, ok := arg.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type().Equals(cty.String) {
				return lit.Val.AsString(), nil
			}
		}
	}
	return "", fmt.Errorf("the record() constructor takes a record id, either bare or quoted")
}
