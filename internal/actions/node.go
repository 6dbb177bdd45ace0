package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// nodeState is the full description of a node, enough to recreate it with
// the same identity. removeNodeOp refreshes it every time it runs.
type nodeState struct {
	id       nodeid.ID
	parent   nodeid.ID
	meta     *graph.Metadata
	name     string
	data     *graph.Datablock
	blind    *graph.BlindData
	position int
}

type addNodeOp struct{ n *nodeState }

func (o addNodeOp) Apply(ctx context.Context, g *graph.Graph) error {
	n := o.n
	if n.meta == nil {
		return fmt.Errorf("node %s has no recorded type: %w", n.id, graph.ErrNodeNotFound)
	}
	if err := g.AddNode(n.parent, n.meta, n.name, n.id, n.data, n.blind, n.position); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Node added.", "name", n.name, "type", n.meta.Type(), "id", n.id.Short())
	return nil
}

func (o addNodeOp) String() string {
	return fmt.Sprintf("add %s '%s' (%s)", o.n.meta, o.n.name, o.n.id.Short())
}

type removeNodeOp struct{ n *nodeState }

func (o removeNodeOp) Apply(ctx context.Context, g *graph.Graph) error {
	node, ok := g.Node(o.n.id)
	if !ok {
		return fmt.Errorf("node %s: %w", o.n.id, graph.ErrNodeNotFound)
	}
	meta, name, data, blind, parent := node.Metadata(), node.Name(), node.Datablock(), node.BlindData(), node.Parent()
	pos, err := g.RemoveNode(o.n.id)
	if err != nil {
		return err
	}
	o.n.meta, o.n.name, o.n.data, o.n.blind, o.n.parent = meta, name, data, blind, parent
	o.n.position = pos
	ctxlog.FromContext(ctx).Debug("Node removed.", "name", name, "type", meta.Type(), "id", o.n.id.Short())
	return nil
}

func (o removeNodeOp) String() string {
	return fmt.Sprintf("remove '%s' (%s)", o.n.name, o.n.id.Short())
}

// CreateNodeAction creates a node of type meta inside the network parent. A
// nil data creates default values; otherwise data must match meta.
func CreateNodeAction(parent nodeid.ID, meta *graph.Metadata, name string, blind *graph.BlindData, id nodeid.ID, data *graph.Datablock) undo.Action {
	st := &nodeState{
		id:       id,
		parent:   parent,
		meta:     meta,
		name:     name,
		data:     data,
		blind:    blind.Clone(),
		position: -1,
	}
	var a undo.Action
	a.AddCommand(fmt.Sprintf("create %s '%s'", meta, name), addNodeOp{st}, removeNodeOp{st})
	return a
}

// RemoveNodeAction removes a node. A network is emptied first. The node must
// not be connected to its siblings; RemoveAction takes care of that.
func RemoveNodeAction(g *graph.Graph, id nodeid.ID) (undo.Action, error) {
	var a undo.Action
	n, ok := g.Node(id)
	if !ok {
		return a, fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
	}
	if id == g.Root() {
		return a, graph.ErrRoot
	}
	if n.IsNetwork() {
		sub, err := RemoveNetworkAction(g, id)
		if err != nil {
			return a, err
		}
		a.Append(sub)
	} else {
		a.Append(unlinkAllAction(fixedBoundary(id)))
	}
	st := &nodeState{id: id, name: n.Name(), position: -1}
	a.AddCommand(fmt.Sprintf("remove '%s'", n.Name()), removeNodeOp{st}, addNodeOp{st})
	return a, nil
}

// RemoveNetworkAction empties a network: its boundary links, then its
// connections, then its children. Connections go before nodes so undo
// recreates the nodes before reconnecting them.
func RemoveNetworkAction(g *graph.Graph, id nodeid.ID) (undo.Action, error) {
	var a undo.Action
	n, ok := g.Node(id)
	if !ok {
		return a, fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
	}
	if !n.IsNetwork() {
		return a, fmt.Errorf("node '%s' (%s): %w", n.Name(), n.Metadata().Type(), graph.ErrNotNetwork)
	}
	a.Append(unlinkAllAction(fixedBoundary(id)))
	conns, err := g.Connections(id)
	if err != nil {
		return a, err
	}
	for _, c := range conns {
		a.Append(disconnectCommands(At(c.From), At(c.To)))
	}
	for _, child := range n.Children() {
		sub, err := RemoveNodeAction(g, child)
		if err != nil {
			return a, err
		}
		a.Append(sub)
	}
	return a, nil
}

// RemoveAction removes the selected nodes and connections. Every connection
// touching a selected node is removed with it. Nodes nested below a selected
// network are removed through that network.
func RemoveAction(g *graph.Graph, sel *graph.Selection) (undo.Action, error) {
	var a undo.Action
	selected := sel.Nodes()
	var roots []nodeid.ID
	for _, id := range selected {
		if !g.Has(id) {
			return a, fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
		}
		if id == g.Root() {
			return a, graph.ErrRoot
		}
		covered := false
		for _, other := range selected {
			if other != id && g.IsAncestor(other, id) {
				covered = true
				break
			}
		}
		if !covered {
			roots = append(roots, id)
		}
	}

	insideRemoved := func(c graph.Connection) bool {
		for _, r := range roots {
			if g.IsAncestor(r, c.To.Node) {
				return true
			}
		}
		return false
	}
	seen := make(map[graph.Connection]bool)
	var conns []graph.Connection
	add := func(c graph.Connection) {
		if !seen[c] && !insideRemoved(c) {
			seen[c] = true
			conns = append(conns, c)
		}
	}
	for _, c := range sel.Connections() {
		add(c)
	}
	for _, id := range roots {
		for _, c := range g.NodeConnections(id) {
			add(c)
		}
	}
	// Shallow networks first: rebuilding a subnetwork rewires its
	// connections in the parent.
	sort.SliceStable(conns, func(i, j int) bool {
		return depth(g, conns[i].To.Node) < depth(g, conns[j].To.Node)
	})

	for _, c := range conns {
		a.Append(DisconnectAction(At(c.From), At(c.To)))
	}
	for _, id := range roots {
		sub, err := RemoveNodeAction(g, id)
		if err != nil {
			return a, err
		}
		a.Append(sub)
	}
	return a, nil
}

func depth(g *graph.Graph, id nodeid.ID) int {
	d := 0
	for n, ok := g.Node(id); ok && !n.Parent().IsZero(); n, ok = g.Node(n.Parent()) {
		d++
	}
	return d
}

type rename struct {
	id   nodeid.ID
	name string
	old  string
}

type renameOp struct{ r *rename }

func (o renameOp) Apply(_ context.Context, g *graph.Graph) error {
	if other, taken := pseudoNamed(g, o.r.id, o.r.name); taken {
		return fmt.Errorf("cannot rename %s to '%s': %s: %w", o.r.id.Short(), o.r.name, other.Short(), graph.ErrDuplicateName)
	}
	old, err := g.SetName(o.r.id, o.r.name)
	if err != nil {
		return err
	}
	o.r.old = old
	return nil
}

func (o renameOp) String() string { return fmt.Sprintf("rename %s to '%s'", o.r.id.Short(), o.r.name) }

// pseudoNamed returns the sibling pseudo-node already called name, if id is
// a pseudo-node. External attributes are named after pseudo-nodes and must
// stay unique.
func pseudoNamed(g *graph.Graph, id nodeid.ID, name string) (nodeid.ID, bool) {
	n, ok := g.Node(id)
	if !ok || !n.Kind().IsBoundary() || n.Parent().IsZero() {
		return nodeid.Nil, false
	}
	parent, ok := g.Node(n.Parent())
	if !ok {
		return nodeid.Nil, false
	}
	for _, sib := range parent.Children() {
		s, _ := g.Node(sib)
		if sib != id && s.Kind().IsBoundary() && s.Name() == name {
			return sib, true
		}
	}
	return nodeid.Nil, false
}

type unrenameOp struct{ r *rename }

func (o unrenameOp) Apply(_ context.Context, g *graph.Graph) error {
	_, err := g.SetName(o.r.id, o.r.old)
	return err
}

func (o unrenameOp) String() string { return fmt.Sprintf("rename %s back to '%s'", o.r.id.Short(), o.r.old) }

// RenameNodeAction renames a node. Renaming an input or output pseudo-node
// rebuilds the boundary of its network so the external attribute follows.
func RenameNodeAction(id nodeid.ID, name string) undo.Action {
	r := &rename{id: id, name: name}
	var a undo.Action
	a.AddCommand(fmt.Sprintf("rename to '%s'", name), renameOp{r}, unrenameOp{r})
	a.Append(rebuildAction(boundaryOf(id)))
	return a
}
