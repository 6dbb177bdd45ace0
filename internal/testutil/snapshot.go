package testutil

import (
	"fmt"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// NodeSnapshot is a comparable rendering of one node.
type NodeSnapshot struct {
	Parent      string
	Name        string
	Type        string
	Kind        string
	Attributes  []string
	Values      []string
	Blind       string
	Children    []string
	Connections []string
}

// GraphSnapshot is a comparable rendering of a whole graph, keyed by node ID.
// Metadata handles are rendered by content, so two graphs with equal
// snapshots are structurally identical.
type GraphSnapshot struct {
	Nodes map[string]NodeSnapshot
	Links []string
}

// Snapshot renders g. Compare snapshots with cmp.Diff.
func Snapshot(g *graph.Graph) GraphSnapshot {
	s := GraphSnapshot{Nodes: make(map[string]NodeSnapshot)}
	g.Walk(g.Root(), func(n *graph.Node) bool {
		s.Nodes[n.ID().String()] = snapshotNode(g, n)
		return true
	})
	for _, l := range g.AllLinks() {
		s.Links = append(s.Links, fmt.Sprintf("%s => %s", ref(l.From), ref(l.To)))
	}
	return s
}

func snapshotNode(g *graph.Graph, n *graph.Node) NodeSnapshot {
	meta := n.Metadata()
	data := n.Datablock()
	ns := NodeSnapshot{
		Name: n.Name(),
		Type: meta.Type(),
		Kind: n.Kind().String(),
	}
	if !n.Parent().IsZero() {
		ns.Parent = n.Parent().String()
	}
	for i, a := range meta.Attributes() {
		ns.Attributes = append(ns.Attributes, fmt.Sprintf("%s %s %s flags=%d", a.Category, a.Name, a.Type.FriendlyName(), a.Flags))
		ns.Values = append(ns.Values, data.Get(i).GoString())
	}
	if b := n.BlindData(); b != nil {
		ns.Blind = b.Type + ":" + string(b.Value)
	}
	for _, c := range n.Children() {
		ns.Children = append(ns.Children, c.String())
	}
	if n.IsNetwork() {
		conns, _ := g.Connections(n.ID())
		for _, c := range conns {
			ns.Connections = append(ns.Connections, fmt.Sprintf("%s -> %s", ref(c.From), ref(c.To)))
		}
	}
	return ns
}

func ref(r graph.PortRef) string {
	return fmt.Sprintf("%s:%d", r.Node, r.Port)
}

// Child returns the ID of the child of net called name, or nodeid.Nil.
func Child(g *graph.Graph, net nodeid.ID, name string) nodeid.ID {
	children, err := g.Children(net)
	if err != nil {
		return nodeid.Nil
	}
	for _, c := range children {
		if n, _ := g.Node(c); n.Name() == name {
			return c
		}
	}
	return nodeid.Nil
}
