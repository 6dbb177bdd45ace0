package actions

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// boundaryPort is one synthesized external attribute of a network.
type boundaryPort struct {
	attr   graph.Attribute
	pseudo nodeid.ID
	value  cty.Value
}

// BuildNetworkAction synchronizes the external attributes of a network with
// its connected pseudo-nodes.
//
// Every input pseudo-node with a connection becomes an input attribute named
// after the pseudo-node and typed after the port it feeds; every connected
// output pseudo-node becomes an output attribute typed after the port feeding
// it. Unconnected pseudo-nodes contribute nothing. Attribute values already
// present under the same name and category are kept.
func BuildNetworkAction(g *graph.Graph, netID nodeid.ID) (undo.Action, error) {
	var a undo.Action
	net, ok := g.Node(netID)
	if !ok {
		return a, fmt.Errorf("node %s: %w", netID, graph.ErrNodeNotFound)
	}
	if !net.IsNetwork() {
		return a, fmt.Errorf("node '%s' (%s): %w", net.Name(), net.Metadata().Type(), graph.ErrNotNetwork)
	}
	old, oldData := net.Metadata(), net.Datablock()

	var ports []boundaryPort
	for _, childID := range net.Children() {
		child, _ := g.Node(childID)
		pseudo := graph.PortRef{Node: childID, Port: 0}
		switch child.Kind() {
		case graph.KindInput:
			conns := g.OutputConnections(pseudo)
			if len(conns) == 0 {
				continue
			}
			far, err := g.Attribute(conns[0].To)
			if err != nil {
				return a, err
			}
			fallback, err := g.Stored(conns[0].To)
			if err != nil {
				return a, err
			}
			attr := graph.Attribute{Name: child.Name(), Type: far.Type, Category: graph.Input, Flags: far.Flags}
			ports = append(ports, boundaryPort{attr: attr, pseudo: childID, value: keptValue(old, oldData, attr, fallback)})
		case graph.KindOutput:
			c, ok := g.InputConnection(pseudo)
			if !ok {
				continue
			}
			far, err := g.Attribute(c.From)
			if err != nil {
				return a, err
			}
			attr := graph.Attribute{Name: child.Name(), Type: far.Type, Category: graph.Output, Flags: far.Flags}
			ports = append(ports, boundaryPort{attr: attr, pseudo: childID, value: keptValue(old, oldData, attr, cty.NullVal(far.Type))})
		}
	}

	seen := make(map[string]struct{}, len(ports))
	for _, p := range ports {
		if _, dup := seen[p.attr.Name]; dup {
			return a, fmt.Errorf("network '%s': more than one connected pseudo-node is called '%s': %w", net.Name(), p.attr.Name, graph.ErrDuplicateName)
		}
		seen[p.attr.Name] = struct{}{}
	}

	attrs := make([]graph.Attribute, len(ports))
	links := make([]graph.Link, len(ports))
	var outputs []graph.Link
	for i, p := range ports {
		attrs[i] = p.attr
		ext := graph.PortRef{Node: netID, Port: i}
		in := graph.PortRef{Node: p.pseudo, Port: 0}
		if p.attr.Category == graph.Input {
			links[i] = graph.Link{From: ext, To: in}
		} else {
			links[i] = graph.Link{From: in, To: ext}
			outputs = append(outputs, links[i])
		}
	}
	meta := graph.NewMetadata(old.Type(), graph.KindNetwork, attrs, transferOutputs(outputs)).WithDescription(old.Description())

	for _, l := range g.Links(netID) {
		a.Append(UnlinkAction(l.From))
	}
	change, err := ChangeMetadataAction(g, netID, meta)
	if err != nil {
		return a, err
	}
	a.Append(change)
	for i, p := range ports {
		if !p.value.IsNull() {
			a.Append(SetValueAction(Port(netID, i), p.value))
		}
	}
	for _, l := range links {
		a.Append(LinkAction(l))
	}
	return a, nil
}

// BuildNetwork runs BuildNetworkAction on a private stack. The result is not
// undoable.
func BuildNetwork(ctx context.Context, g *graph.Graph, netID nodeid.ID) error {
	a, err := BuildNetworkAction(g, netID)
	if err != nil {
		return err
	}
	_, err = undo.NewStack().Execute(ctx, g, a, true)
	return err
}

// keptValue returns the stored value of the attribute of old matching attr
// by name and category, converted to the type of attr, or fallback.
func keptValue(old *graph.Metadata, data *graph.Datablock, attr graph.Attribute, fallback cty.Value) cty.Value {
	i, ok := old.Index(attr.Name)
	if !ok || old.Attribute(i).Category != attr.Category {
		return fallback
	}
	v := data.Get(i)
	if v.IsNull() {
		return fallback
	}
	if attr.Type.Equals(cty.DynamicPseudoType) {
		return v
	}
	cv, err := convert.Convert(v, attr.Type)
	if err != nil {
		return fallback
	}
	return cv
}

// transferOutputs returns the compute function of a network: it copies the
// value reaching each output pseudo-node to the linked network output.
func transferOutputs(outputs []graph.Link) graph.ComputeFunc {
	if len(outputs) == 0 {
		return nil
	}
	return func(_ context.Context, io *graph.Values) error {
		for _, l := range outputs {
			v, err := io.Pull(l.From)
			if err != nil {
				return err
			}
			if err := io.Set(l.To.Port, v); err != nil {
				return err
			}
		}
		return nil
	}
}
