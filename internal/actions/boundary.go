package actions

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// boundary finds the network whose boundary an edit of nodes affects: the
// parent of the first input or output pseudo-node among them. It is resolved
// on first use and then kept, so redo and undo agree on the network.
type boundary struct {
	net      nodeid.ID
	nodes    []nodeid.ID
	resolved bool
}

func fixedBoundary(net nodeid.ID) *boundary {
	return &boundary{net: net, resolved: true}
}

func boundaryOf(nodes ...nodeid.ID) *boundary {
	return &boundary{nodes: nodes}
}

func (b *boundary) resolve(g *graph.Graph) nodeid.ID {
	if b.resolved {
		return b.net
	}
	b.resolved = true
	for _, id := range b.nodes {
		n, ok := g.Node(id)
		if ok && n.Kind().IsBoundary() && !n.Parent().IsZero() {
			b.net = n.Parent()
			break
		}
	}
	return b.net
}

func (b *boundary) String() string {
	if b.resolved {
		if b.net.IsZero() {
			return "none"
		}
		return b.net.Short()
	}
	return "pending"
}

// linkSet holds the links dropped by unlinkAllOp so they can be restored.
type linkSet struct {
	side  *boundary
	links []graph.Link
}

type unlinkAllOp struct{ s *linkSet }

func (o unlinkAllOp) Apply(ctx context.Context, g *graph.Graph) error {
	o.s.links = nil
	id := o.s.side.resolve(g)
	if id.IsZero() {
		return nil
	}
	links := g.Links(id)
	for _, l := range links {
		if _, err := g.Unlink(l.From); err != nil {
			return err
		}
	}
	o.s.links = links
	if len(links) > 0 {
		ctxlog.FromContext(ctx).Debug("Boundary links dropped.", "node", id.Short(), "count", len(links))
	}
	return nil
}

func (o unlinkAllOp) String() string { return "unlink all of " + o.s.side.String() }

type relinkAllOp struct{ s *linkSet }

func (o relinkAllOp) Apply(_ context.Context, g *graph.Graph) error {
	for _, l := range o.s.links {
		if err := g.Link(l); err != nil {
			return err
		}
	}
	return nil
}

func (o relinkAllOp) String() string { return fmt.Sprintf("relink %d", len(o.s.links)) }

// unlinkAllAction drops every link touching the node resolved by side.
func unlinkAllAction(side *boundary) undo.Action {
	s := &linkSet{side: side}
	var a undo.Action
	a.AddCommand("unlink boundary", unlinkAllOp{s}, relinkAllOp{s})
	return a
}

// rebuild carries the private stack a boundary rebuild ran on.
type rebuild struct {
	side  *boundary
	stack *undo.Stack
}

type rebuildOp struct{ r *rebuild }

func (o rebuildOp) Apply(ctx context.Context, g *graph.Graph) error {
	o.r.stack = nil
	net := o.r.side.resolve(g)
	if net.IsZero() {
		return nil
	}
	a, err := BuildNetworkAction(g, net)
	if err != nil {
		return err
	}
	s := undo.NewStack()
	if _, err := s.Execute(ctx, g, a, true); err != nil {
		return fmt.Errorf("rebuild network %s: %w", net.Short(), err)
	}
	o.r.stack = s
	return nil
}

func (o rebuildOp) String() string { return "rebuild " + o.r.side.String() }

type unbuildOp struct{ r *rebuild }

func (o unbuildOp) Apply(ctx context.Context, g *graph.Graph) error {
	if o.r.stack == nil || !o.r.stack.CanUndo() {
		return nil
	}
	return o.r.stack.Undo(ctx, g)
}

func (o unbuildOp) String() string { return "unbuild " + o.r.side.String() }

func rebuildAction(side *boundary) undo.Action {
	r := &rebuild{side: side}
	var a undo.Action
	a.AddCommand("rebuild network", rebuildOp{r}, unbuildOp{r})
	return a
}
