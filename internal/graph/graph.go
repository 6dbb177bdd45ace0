package graph

import (
	"fmt"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// Graph is the arena holding every node, the root network and all links.
type Graph struct {
	root        nodeid.ID
	nodes       map[nodeid.ID]*Node
	links       map[PortRef]PortRef // source -> target
	linkTargets map[PortRef]PortRef // target -> source
}

// New creates a graph whose root network uses rootMeta, which must be of
// KindNetwork. A nil rootMeta uses a fresh NetworkMetadata.
func New(rootMeta *Metadata) *Graph {
	if rootMeta == nil {
		rootMeta = NetworkMetadata()
	}
	if rootMeta.kind != KindNetwork {
		panic(fmt.Sprintf("graph: root metadata %q is not a network", rootMeta.typeName))
	}
	root := &Node{
		id:   nodeid.New(),
		name: "root",
		meta: rootMeta,
		data: NewDatablock(rootMeta),
	}
	return &Graph{
		root:        root.id,
		nodes:       map[nodeid.ID]*Node{root.id: root},
		links:       make(map[PortRef]PortRef),
		linkTargets: make(map[PortRef]PortRef),
	}
}

// Root returns the ID of the root network.
func (g *Graph) Root() nodeid.ID { return g.root }

// Node looks a node up by ID.
func (g *Graph) Node(id nodeid.ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id nodeid.ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes in the graph, the root included.
func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) lookup(id nodeid.ID) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

func (g *Graph) network(id nodeid.ID) (*Node, error) {
	n, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	if !n.IsNetwork() {
		return nil, fmt.Errorf("node '%s' (%s): %w", n.name, n.meta.typeName, ErrNotNetwork)
	}
	return n, nil
}

// Children returns the children of the network id.
func (g *Graph) Children(id nodeid.ID) ([]nodeid.ID, error) {
	n, err := g.network(id)
	if err != nil {
		return nil, err
	}
	return n.Children(), nil
}

// Walk visits the network id and every node below it, depth first, parents
// before children. Returning false from fn stops the walk below that node.
func (g *Graph) Walk(id nodeid.ID, fn func(n *Node) bool) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		g.Walk(c, fn)
	}
}

// IsAncestor reports whether ancestor is a (transitive) parent of id.
func (g *Graph) IsAncestor(ancestor, id nodeid.ID) bool {
	n, ok := g.nodes[id]
	for ok && !n.parent.IsZero() {
		if n.parent == ancestor {
			return true
		}
		n, ok = g.nodes[n.parent]
	}
	return false
}

// AddNode creates a node inside the network parent. A nil data creates a
// default datablock; otherwise data must match meta and is copied. position
// selects the slot in the parent's child list; a negative or out of range
// position appends.
func (g *Graph) AddNode(parent nodeid.ID, meta *Metadata, name string, id nodeid.ID, data *Datablock, blind *BlindData, position int) error {
	if id.IsZero() {
		return fmt.Errorf("cannot create node '%s' with a zero id: %w", name, ErrNodeNotFound)
	}
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("node '%s' (%s): %w", name, id, ErrNodeExists)
	}
	p, err := g.network(parent)
	if err != nil {
		return fmt.Errorf("cannot create node '%s': %w", name, err)
	}
	if data == nil {
		data = NewDatablock(meta)
	} else {
		if !data.Compatible(meta) {
			return fmt.Errorf("datablock does not match attributes of %q for node '%s': %w", meta.typeName, name, ErrIncompatible)
		}
		data = data.Clone()
	}
	n := &Node{
		id:     id,
		name:   name,
		meta:   meta,
		data:   data,
		blind:  blind.Clone(),
		parent: parent,
	}
	g.nodes[id] = n
	p.children = insertAt(p.children, id, position)
	return nil
}

// RemoveNode deletes a node from its parent network and returns the position
// it occupied. The node must have no connections and no links, and a network
// must be empty.
func (g *Graph) RemoveNode(id nodeid.ID) (int, error) {
	if id == g.root {
		return -1, ErrRoot
	}
	n, err := g.lookup(id)
	if err != nil {
		return -1, err
	}
	if n.IsNetwork() && !n.Empty() {
		return -1, fmt.Errorf("cannot remove network '%s': %w", n.name, ErrNotEmpty)
	}
	if len(g.NodeConnections(id)) > 0 {
		return -1, fmt.Errorf("cannot remove node '%s': %w", n.name, ErrConnected)
	}
	for i := 0; i < n.meta.Len(); i++ {
		ref := PortRef{Node: id, Port: i}
		if _, ok := g.links[ref]; ok {
			return -1, fmt.Errorf("cannot remove node '%s', port '%s': %w", n.name, n.PortName(i), ErrLinked)
		}
		if _, ok := g.linkTargets[ref]; ok {
			return -1, fmt.Errorf("cannot remove node '%s', port '%s': %w", n.name, n.PortName(i), ErrLinked)
		}
	}
	p := g.nodes[n.parent]
	pos := indexOf(p.children, id)
	p.children = append(p.children[:pos], p.children[pos+1:]...)
	delete(g.nodes, id)
	return pos, nil
}

// SetName renames a node and returns the previous name.
func (g *Graph) SetName(id nodeid.ID, name string) (string, error) {
	n, err := g.lookup(id)
	if err != nil {
		return "", err
	}
	old := n.name
	n.name = name
	return old, nil
}

// SetBlindData replaces the node's blind data.
func (g *Graph) SetBlindData(id nodeid.ID, blind *BlindData) error {
	n, err := g.lookup(id)
	if err != nil {
		return err
	}
	n.blind = blind.Clone()
	return nil
}

// SetMetadata swaps the node's metadata and datablock, returning the previous
// pair. The node must be free of connections and links because port indices
// change meaning. A network with children must stay a network.
func (g *Graph) SetMetadata(id nodeid.ID, meta *Metadata, data *Datablock) (*Metadata, *Datablock, error) {
	n, err := g.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	if data == nil {
		data = NewDatablock(meta)
	} else if !data.Compatible(meta) {
		return nil, nil, fmt.Errorf("datablock does not match attributes of %q for node '%s': %w", meta.typeName, n.name, ErrIncompatible)
	}
	if n.IsNetwork() && meta.kind != KindNetwork && !n.Empty() {
		return nil, nil, fmt.Errorf("cannot change non-empty network '%s' into %q: %w", n.name, meta.typeName, ErrNotEmpty)
	}
	if id != g.root && len(g.NodeConnections(id)) > 0 {
		return nil, nil, fmt.Errorf("cannot change type of node '%s': %w", n.name, ErrConnected)
	}
	for i := 0; i < n.meta.Len(); i++ {
		ref := PortRef{Node: id, Port: i}
		_, src := g.links[ref]
		_, dst := g.linkTargets[ref]
		if src || dst {
			return nil, nil, fmt.Errorf("cannot change type of node '%s', port '%s': %w", n.name, n.PortName(i), ErrLinked)
		}
	}
	oldMeta, oldData := n.meta, n.data
	n.meta = meta
	n.data = data.Clone()
	return oldMeta, oldData, nil
}

func insertAt[T any](s []T, v T, pos int) []T {
	if pos < 0 || pos >= len(s) {
		return append(s, v)
	}
	s = append(s, v)
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}

func indexOf(s []nodeid.ID, id nodeid.ID) int {
	for i, v := range s {
		if v == id {
			return i
		}
	}
	return -1
}
