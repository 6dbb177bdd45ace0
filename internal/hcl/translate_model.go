// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/schema"
)

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder populates omitted optional attributes with zero-width
// placeholder expressions, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

func checkLayout(layout, ownerName, attrName string) error {
	switch layout {
	case "", config.LayoutVertical, config.LayoutHorizontal:
		return nil
	default:
		return fmt.Errorf("in node_type '%s', attribute '%s': invalid layout %q, must be '%s' or '%s'", ownerName, attrName, layout, config.LayoutVertical, config.LayoutHorizontal)
	}
}

// translateInputDefinition processes a single input block, handling its
// default value and type parsing.
func translateInputDefinition(ctx context.Context, in *schema.InputDefinition, ownerName string) (*config.AttributeDefinition, error) {
	parsedType, err := typeExprToCtyType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("in node_type '%s', input '%s': %w", ownerName, in.Name, err)
	}
	if err := checkLayout(in.Layout, ownerName, in.Name); err != nil {
		return nil, err
	}

	var defaultVal *cty.Value
	if isExprDefined(ctx, in.Default, "default") {
		val, diags := in.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for input '%s' in node_type '%s': %w", in.Name, ownerName, diags)
		}
		if !val.IsNull() {
			defaultVal = &val
		}
	}

	return &config.AttributeDefinition{
		Name:        in.Name,
		Type:        parsedType,
		Description: in.Description,
		Default:     defaultVal,
		Layout:      in.Layout,
	}, nil
}

// translateNodeType converts the HCL-specific node type schema into the
// agnostic model.
func translateNodeType(ctx context.Context, s *schema.NodeTypeDefinition) (*config.NodeTypeDefinition, error) {
	def := &config.NodeTypeDefinition{
		Type:        s.Type,
		Description: s.Description,
		Compute:     s.Compute,
	}
	seen := make(map[string]struct{})
	claim := func(name string) error {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("node_type '%s' declares attribute '%s' more than once", s.Type, name)
		}
		seen[name] = struct{}{}
		return nil
	}

	for _, in := range s.Inputs {
		if err := claim(in.Name); err != nil {
			return nil, err
		}
		attr, err := translateInputDefinition(ctx, in, s.Type)
		if err != nil {
			return nil, err
		}
		def.Inputs = append(def.Inputs, attr)
	}
	for _, out := range s.Outputs {
		if err := claim(out.Name); err != nil {
			return nil, err
		}
		parsedType, err := typeExprToCtyType(ctx, out.Type)
		if err != nil {
			return nil, fmt.Errorf("in node_type '%s', output '%s': %w", s.Type, out.Name, err)
		}
		if err := checkLayout(out.Layout, s.Type, out.Name); err != nil {
			return nil, err
		}
		def.Outputs = append(def.Outputs, &config.AttributeDefinition{
			Name:        out.Name,
			Type:        parsedType,
			Description: out.Description,
			Layout:      out.Layout,
		})
	}
	return def, nil
}
