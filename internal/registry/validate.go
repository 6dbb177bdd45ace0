package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code and turns every valid definition into a registered metadata handle.
// Compute names must be registered and defaults must convert to the
// declared type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, typeName := range names {
		def := r.definitions[typeName]
		if _, done := r.built[typeName]; done {
			continue
		}
		if _, builtin := r.types[typeName]; builtin {
			errs = append(errs, fmt.Sprintf("node type '%s': name is already registered", typeName))
			continue
		}

		var compute graph.ComputeFunc
		if def.Compute != "" {
			fn, ok := r.computes[def.Compute]
			if !ok {
				errs = append(errs, fmt.Sprintf("node type '%s': manifest refers to compute function '%s' which is not registered", typeName, def.Compute))
				continue
			}
			compute = fn
		}

		attrs := make([]graph.Attribute, 0, len(def.Inputs)+len(def.Outputs))
		valid := true
		for _, in := range def.Inputs {
			attr, err := toAttribute(in, graph.Input)
			if err != nil {
				errs = append(errs, fmt.Sprintf("node type '%s', input '%s': %v", typeName, in.Name, err))
				valid = false
				continue
			}
			if in.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest declares an input with 'type = any', which disables type checking of connections.", "node_type", typeName, "input", in.Name)
			}
			attrs = append(attrs, attr)
		}
		for _, out := range def.Outputs {
			attr, err := toAttribute(out, graph.Output)
			if err != nil {
				errs = append(errs, fmt.Sprintf("node type '%s', output '%s': %v", typeName, out.Name, err))
				valid = false
				continue
			}
			attrs = append(attrs, attr)
		}
		if !valid {
			continue
		}

		r.built[typeName] = struct{}{}
		r.types[typeName] = graph.NewMetadata(typeName, graph.KindNode, attrs, compute).WithDescription(def.Description)
		logger.Debug("Node type validated.", "type", typeName, "attributes", len(attrs))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func toAttribute(def *config.AttributeDefinition, cat graph.Category) (graph.Attribute, error) {
	attr := graph.Attribute{
		Name:     def.Name,
		Type:     def.Type,
		Category: cat,
		Default:  cty.NullVal(def.Type),
	}
	switch def.Layout {
	case config.LayoutVertical:
		attr.Flags = graph.FlagVertical
	case config.LayoutHorizontal:
		attr.Flags = graph.FlagHorizontal
	}
	if def.Default != nil {
		v, err := convert.Convert(*def.Default, def.Type)
		if err != nil {
			return attr, fmt.Errorf("default value of type %s does not convert to %s: %w", def.Default.Type().FriendlyName(), def.Type.FriendlyName(), err)
		}
		attr.Default = v
	}
	return attr, nil
}
