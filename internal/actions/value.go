package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// value is the payload of a set value command. Either value or raw is set;
// raw is decoded against the port type when the command runs.
type value struct {
	port  Endpoint
	value cty.Value
	raw   json.RawMessage

	prior    cty.Value
	captured bool
	skipped  bool
}

type setValueOp struct{ v *value }

func (o setValueOp) Apply(ctx context.Context, g *graph.Graph) error {
	s := o.v
	s.skipped = false
	ref, err := s.port.Resolve(g)
	if err != nil {
		return err
	}
	attr, err := g.Attribute(ref)
	if err != nil {
		return err
	}
	if attr.Category == graph.Input && g.IsConnected(ref) {
		s.skipped = true
		ctxlog.FromContext(ctx).Debug("Input is connected, value not set.", "port", g.Describe(ref))
		return nil
	}
	v := s.value
	if s.raw != nil {
		if v, err = decodePortValue(g, ref, attr, s.raw); err != nil {
			return err
		}
	}
	cur, err := g.Stored(ref)
	if err != nil {
		return err
	}
	if err := g.SetStored(ref, v); err != nil {
		return err
	}
	if !s.captured {
		s.prior = cur
		s.captured = true
	}
	return nil
}

func (o setValueOp) String() string { return "set " + o.v.port.String() }

type unsetValueOp struct{ v *value }

func (o unsetValueOp) Apply(_ context.Context, g *graph.Graph) error {
	if o.v.skipped || !o.v.captured {
		return nil
	}
	ref, err := o.v.port.Resolve(g)
	if err != nil {
		return err
	}
	return g.SetStored(ref, o.v.prior)
}

func (o unsetValueOp) String() string { return "restore " + o.v.port.String() }

// decodePortValue decodes raw into the type of the port. The declared type
// wins; a dynamic port uses the type of its current value, or the type
// implied by the JSON when it holds nothing.
func decodePortValue(g *graph.Graph, ref graph.PortRef, attr graph.Attribute, raw json.RawMessage) (cty.Value, error) {
	ty := attr.Type
	if ty.Equals(cty.DynamicPseudoType) {
		cur, err := g.Stored(ref)
		if err != nil {
			return cty.NilVal, err
		}
		if !cur.IsNull() {
			ty = cur.Type()
		} else if ty, err = ctyjson.ImpliedType(raw); err != nil {
			return cty.NilVal, fmt.Errorf("port %s: %w", g.Describe(ref), err)
		}
	}
	v, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("port %s: cannot decode %s: %w", g.Describe(ref), ty.FriendlyName(), err)
	}
	return v, nil
}

// SetValueAction stores value on a port. Connected inputs are left alone.
func SetValueAction(port Endpoint, v cty.Value) undo.Action {
	var a undo.Action
	p := &value{port: port, value: v}
	a.AddCommand("set value of "+port.String(), setValueOp{p}, unsetValueOp{p})
	return a
}

// SetJSONValueAction decodes raw into the named port of node and stores it.
func SetJSONValueAction(node nodeid.ID, portName string, raw json.RawMessage) undo.Action {
	var a undo.Action
	p := &value{port: PortNamed(node, portName), raw: raw}
	a.AddCommand(fmt.Sprintf("set value of %s.%s", node.Short(), portName), setValueOp{p}, unsetValueOp{p})
	return a
}

// SetValuesFromJSON builds one SetJSONValueAction per entry of ports, in name
// order. Names that meta does not declare are reported as warnings on state
// and skipped.
func SetValuesFromJSON(meta *graph.Metadata, node nodeid.ID, ports map[string]json.RawMessage, state *undo.State) undo.Action {
	var a undo.Action
	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := meta.Index(name); !ok {
			state.AddWarning("node %s of type %s has no port '%s', value ignored", node.Short(), meta.Type(), name)
			continue
		}
		a.Append(SetJSONValueAction(node, name, ports[name]))
	}
	return a
}
