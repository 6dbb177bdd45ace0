package actions

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

type metaSwap struct {
	id      nodeid.ID
	meta    *graph.Metadata
	old     *graph.Metadata
	oldData *graph.Datablock
}

type swapMetaOp struct{ s *metaSwap }

func (o swapMetaOp) Apply(ctx context.Context, g *graph.Graph) error {
	n, ok := g.Node(o.s.id)
	if !ok {
		return fmt.Errorf("node %s: %w", o.s.id, graph.ErrNodeNotFound)
	}
	from := n.Datablock()
	data := graph.NewDatablock(o.s.meta)
	for i, j := range graph.MapAttributes(n.Metadata(), o.s.meta) {
		if v := from.Get(i); !v.IsNull() {
			if err := data.Set(j, v); err != nil {
				return err
			}
		}
	}
	old, oldData, err := g.SetMetadata(o.s.id, o.s.meta, data)
	if err != nil {
		return err
	}
	o.s.old, o.s.oldData = old, oldData
	ctxlog.FromContext(ctx).Debug("Node type changed.", "name", n.Name(), "from", old.Type(), "to", o.s.meta.Type(), "attributes", o.s.meta.Len())
	return nil
}

func (o swapMetaOp) String() string { return fmt.Sprintf("set type of %s to %s", o.s.id.Short(), o.s.meta) }

type restoreMetaOp struct{ s *metaSwap }

func (o restoreMetaOp) Apply(_ context.Context, g *graph.Graph) error {
	if o.s.old == nil {
		return nil
	}
	_, _, err := g.SetMetadata(o.s.id, o.s.old, o.s.oldData)
	return err
}

func (o restoreMetaOp) String() string { return fmt.Sprintf("restore type of %s", o.s.id.Short()) }

// wire is a connection seen from the node being retyped.
type wire struct {
	that  graph.PortRef
	this  int
	input bool
}

// ChangeMetadataAction retypes a node. Connections are dropped, the
// metadata and datablock are swapped, values of attributes matching by name,
// type and category are carried over, and connections whose port survived
// the change are rebuilt on the new port index. The others are dropped.
// When a pseudo-node takes part, the parent's boundary links are dropped
// first and the boundary is rebuilt last.
func ChangeMetadataAction(g *graph.Graph, id nodeid.ID, meta *graph.Metadata) (undo.Action, error) {
	var a undo.Action
	n, ok := g.Node(id)
	if !ok {
		return a, fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
	}
	conns := g.NodeConnections(id)
	wires := make([]wire, 0, len(conns))
	touchesBoundary := n.Kind().IsBoundary()
	for _, c := range conns {
		if c.To.Node == id {
			wires = append(wires, wire{that: c.From, this: c.To.Port, input: true})
		} else {
			wires = append(wires, wire{that: c.To, this: c.From.Port})
		}
		if anyBoundary(g, c.From.Node, c.To.Node) {
			touchesBoundary = true
		}
	}

	var side *boundary
	if touchesBoundary && !n.Parent().IsZero() {
		side = fixedBoundary(n.Parent())
		a.Append(unlinkAllAction(side))
	}
	for _, c := range conns {
		a.Append(disconnectCommands(At(c.From), At(c.To)))
	}
	s := &metaSwap{id: id, meta: meta}
	a.AddCommand(fmt.Sprintf("change type of '%s' to %s", n.Name(), meta), swapMetaOp{s}, restoreMetaOp{s})

	mapping := graph.MapAttributes(n.Metadata(), meta)
	for _, w := range wires {
		j, ok := mapping[w.this]
		if !ok {
			continue
		}
		if w.input {
			a.Append(connectCommands(At(w.that), Port(id, j)))
		} else {
			a.Append(connectCommands(Port(id, j), At(w.that)))
		}
	}
	if side != nil {
		a.Append(rebuildAction(side))
	}
	return a, nil
}
