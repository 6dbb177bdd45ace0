package graph

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// Stored returns the value held in the node's datablock for ref, ignoring
// connections and links.
func (g *Graph) Stored(ref PortRef) (cty.Value, error) {
	n, _, err := g.port(ref)
	if err != nil {
		return cty.NilVal, err
	}
	return n.data.Get(ref.Port), nil
}

// SetStored writes v into the node's datablock for ref.
func (g *Graph) SetStored(ref PortRef, v cty.Value) error {
	n, _, err := g.port(ref)
	if err != nil {
		return err
	}
	if err := n.data.Set(ref.Port, v); err != nil {
		return fmt.Errorf("port %s: %w", g.Describe(ref), err)
	}
	return nil
}

// Value resolves the effective value of a port by following connections and
// links back to a stored value.
func (g *Graph) Value(ref PortRef) (cty.Value, error) {
	for hops := 0; hops <= len(g.nodes)*2+len(g.links); hops++ {
		_, attr, err := g.port(ref)
		if err != nil {
			return cty.NilVal, err
		}
		if attr.Category == Input {
			if c, ok := g.InputConnection(ref); ok {
				ref = c.From
				continue
			}
		}
		if src, ok := g.linkTargets[ref]; ok {
			ref = src
			continue
		}
		return g.Stored(ref)
	}
	return cty.NilVal, fmt.Errorf("value of %s does not resolve: %w", g.Describe(ref), ErrCycle)
}

// Values is the evaluation context handed to a ComputeFunc.
type Values struct {
	g  *Graph
	id nodeid.ID
}

// Node returns the ID of the node being computed.
func (v *Values) Node() nodeid.ID { return v.id }

// Get returns the effective value of port i of the node being computed.
func (v *Values) Get(i int) (cty.Value, error) {
	return v.g.Value(PortRef{Node: v.id, Port: i})
}

// Set stores the value of output port i of the node being computed.
func (v *Values) Set(i int, val cty.Value) error {
	ref := PortRef{Node: v.id, Port: i}
	attr, err := v.g.Attribute(ref)
	if err != nil {
		return err
	}
	if attr.Category != Output {
		return fmt.Errorf("compute may only set outputs, %s is an input: %w", v.g.Describe(ref), ErrPortNotFound)
	}
	return v.g.SetStored(ref, val)
}

// Pull returns the effective value of any port, used by network computes to
// read their boundary pseudo-nodes.
func (v *Values) Pull(ref PortRef) (cty.Value, error) {
	return v.g.Value(ref)
}

// Compute runs the compute function of node id, if it has one.
func (g *Graph) Compute(ctx context.Context, id nodeid.ID) error {
	n, err := g.lookup(id)
	if err != nil {
		return err
	}
	fn := n.meta.compute
	if fn == nil {
		return nil
	}
	if err := fn(ctx, &Values{g: g, id: id}); err != nil {
		return fmt.Errorf("compute of node '%s' (%s): %w", n.name, n.meta.typeName, err)
	}
	return nil
}
