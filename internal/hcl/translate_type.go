// This file parses HCL type expressions such as `string` or `list(number)`
// into port types.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
)

var primitiveTypes = map[string]cty.Type{
	"string": cty.String,
	"number": cty.Number,
	"bool":   cty.Bool,
	"any":    cty.DynamicPseudoType,
}

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. A missing expression means `any`.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name := v.Traversal.RootName()
		ty, ok := primitiveTypes[name]
		if !ok {
			return cty.NilType, fmt.Errorf("unknown primitive type %q", name)
		}
		return ty, nil

	case *hclsyntax.FunctionCallExpr:
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("type constructor %s() requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		if v.Name == "object" {
			return objectType(ctx, v.Args[0])
		}
		elem, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		if elem.Equals(cty.DynamicPseudoType) {
			return cty.NilType, fmt.Errorf("collection type %s() cannot contain type 'any'", v.Name)
		}
		ctxlog.FromContext(ctx).Debug("Parsed collection type.", "constructor", v.Name, "element", elem.FriendlyName())
		switch v.Name {
		case "list":
			return cty.List(elem), nil
		case "map":
			return cty.Map(elem), nil
		case "set":
			return cty.Set(elem), nil
		default:
			return cty.NilType, fmt.Errorf("unknown type constructor function %q", v.Name)
		}

	default:
		return cty.NilType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// objectType parses the `{ name = type, ... }` argument of object().
func objectType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	obj, ok := expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return cty.NilType, fmt.Errorf("object() requires an object of attribute types, got %T", expr)
	}
	attrs := make(map[string]cty.Type, len(obj.Items))
	for _, item := range obj.Items {
		key := hcl.ExprAsKeyword(item.KeyExpr)
		if key == "" {
			return cty.NilType, fmt.Errorf("object() attribute names must be identifiers")
		}
		ty, err := typeExprToCtyType(ctx, item.ValueExpr)
		if err != nil {
			return cty.NilType, fmt.Errorf("object attribute %q: %w", key, err)
		}
		attrs[key] = ty
	}
	return cty.Object(attrs), nil
}
