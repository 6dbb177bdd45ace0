package graph

import "github.com/specialistvlad/gridedit/internal/nodeid"

// Selection scopes copy, cut and remove operations to a set of nodes and
// connections.
type Selection struct {
	nodes       map[nodeid.ID]struct{}
	order       []nodeid.ID
	connections []Connection
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{nodes: make(map[nodeid.ID]struct{})}
}

// Select builds a selection of ids together with every connection whose
// endpoints are both selected.
func (g *Graph) Select(ids ...nodeid.ID) *Selection {
	s := NewSelection()
	for _, id := range ids {
		s.AddNode(id)
	}
	seen := make(map[nodeid.ID]struct{})
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok || n.parent.IsZero() {
			continue
		}
		if _, done := seen[n.parent]; done {
			continue
		}
		seen[n.parent] = struct{}{}
		for _, c := range g.nodes[n.parent].connections {
			if s.HasNode(c.From.Node) && s.HasNode(c.To.Node) {
				s.AddConnection(c)
			}
		}
	}
	return s
}

// AddNode adds id to the selection.
func (s *Selection) AddNode(id nodeid.ID) {
	if _, ok := s.nodes[id]; ok {
		return
	}
	s.nodes[id] = struct{}{}
	s.order = append(s.order, id)
}

// AddConnection adds c to the selection.
func (s *Selection) AddConnection(c Connection) {
	for _, existing := range s.connections {
		if existing == c {
			return
		}
	}
	s.connections = append(s.connections, c)
}

// HasNode reports whether id is selected.
func (s *Selection) HasNode(id nodeid.ID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns the selected node IDs in insertion order.
func (s *Selection) Nodes() []nodeid.ID {
	cp := make([]nodeid.ID, len(s.order))
	copy(cp, s.order)
	return cp
}

// Connections returns the selected connections.
func (s *Selection) Connections() []Connection {
	cp := make([]Connection, len(s.connections))
	copy(cp, s.connections)
	return cp
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return len(s.order) == 0 && len(s.connections) == 0
}
