package graph

import (
	"fmt"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// PortRef identifies a port by node and attribute index.
type PortRef struct {
	Node nodeid.ID
	Port int
}

// Connection is a data dependency from an output port to an input port of
// two nodes in the same network.
type Connection struct {
	From PortRef
	To   PortRef
}

// Touches reports whether either endpoint belongs to the node id.
func (c Connection) Touches(id nodeid.ID) bool {
	return c.From.Node == id || c.To.Node == id
}

// Describe renders a port as "'node'.'port'" for error messages.
func (g *Graph) Describe(ref PortRef) string {
	n, ok := g.nodes[ref.Node]
	if !ok {
		return fmt.Sprintf("%s:%d", ref.Node.Short(), ref.Port)
	}
	name := n.PortName(ref.Port)
	if name == "" {
		name = fmt.Sprintf("#%d", ref.Port)
	}
	return fmt.Sprintf("'%s'.'%s'", n.name, name)
}

// port validates ref and returns the owning node and attribute.
func (g *Graph) port(ref PortRef) (*Node, Attribute, error) {
	n, err := g.lookup(ref.Node)
	if err != nil {
		return nil, Attribute{}, err
	}
	if ref.Port < 0 || ref.Port >= n.meta.Len() {
		return nil, Attribute{}, fmt.Errorf("node '%s' has no port #%d: %w", n.name, ref.Port, ErrPortNotFound)
	}
	return n, n.meta.attrs[ref.Port], nil
}

// Attribute returns the attribute behind a port.
func (g *Graph) Attribute(ref PortRef) (Attribute, error) {
	_, a, err := g.port(ref)
	return a, err
}

// Connect adds c to the network containing both endpoints. position selects
// the slot in the network's connection list; a negative or out of range
// position appends.
func (g *Graph) Connect(c Connection, position int) error {
	from, fromAttr, err := g.port(c.From)
	if err != nil {
		return err
	}
	to, toAttr, err := g.port(c.To)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("%s -> %s", g.Describe(c.From), g.Describe(c.To))
	if fromAttr.Category != Output {
		return fmt.Errorf("cannot connect %s: source is not an output: %w", desc, ErrPortNotFound)
	}
	if toAttr.Category != Input {
		return fmt.Errorf("cannot connect %s: destination is not an input: %w", desc, ErrPortNotFound)
	}
	if from.parent.IsZero() || from.parent != to.parent {
		return fmt.Errorf("cannot connect %s: nodes are not in the same network: %w", desc, ErrNotNetwork)
	}
	if _, ok := g.InputConnection(c.To); ok {
		return fmt.Errorf("cannot connect %s: %w", desc, ErrAlreadyConnected)
	}
	if _, ok := g.linkTargets[c.To]; ok {
		return fmt.Errorf("cannot connect %s: destination is linked: %w", desc, ErrLinked)
	}
	if !typesCompatible(fromAttr.Type, toAttr.Type) {
		return fmt.Errorf("cannot connect %s: %s into %s: %w", desc, fromAttr.Type.FriendlyName(), toAttr.Type.FriendlyName(), ErrIncompatible)
	}
	net := g.nodes[from.parent]
	if c.From.Node == c.To.Node || reaches(net.connections, c.To.Node, c.From.Node) {
		return fmt.Errorf("cannot connect %s: %w", desc, ErrCycle)
	}
	net.connections = insertAt(net.connections, c, position)
	return nil
}

// Disconnect removes c and returns the position it occupied.
func (g *Graph) Disconnect(c Connection) (int, error) {
	n, err := g.lookup(c.To.Node)
	if err != nil {
		return -1, err
	}
	if !n.parent.IsZero() {
		net := g.nodes[n.parent]
		for i, existing := range net.connections {
			if existing == c {
				net.connections = append(net.connections[:i], net.connections[i+1:]...)
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("cannot disconnect %s -> %s: %w", g.Describe(c.From), g.Describe(c.To), ErrNotConnected)
}

// Connections returns the connections owned by the network id.
func (g *Graph) Connections(id nodeid.ID) ([]Connection, error) {
	n, err := g.network(id)
	if err != nil {
		return nil, err
	}
	cp := make([]Connection, len(n.connections))
	copy(cp, n.connections)
	return cp, nil
}

// NodeConnections returns every connection in the node's parent network that
// touches the node.
func (g *Graph) NodeConnections(id nodeid.ID) []Connection {
	n, ok := g.nodes[id]
	if !ok || n.parent.IsZero() {
		return nil
	}
	var out []Connection
	for _, c := range g.nodes[n.parent].connections {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

// InputConnection returns the connection driving an input port.
func (g *Graph) InputConnection(ref PortRef) (Connection, bool) {
	for _, c := range g.NodeConnections(ref.Node) {
		if c.To == ref {
			return c, true
		}
	}
	return Connection{}, false
}

// OutputConnections returns every connection leaving an output port.
func (g *Graph) OutputConnections(ref PortRef) []Connection {
	var out []Connection
	for _, c := range g.NodeConnections(ref.Node) {
		if c.From == ref {
			out = append(out, c)
		}
	}
	return out
}

// IsConnected reports whether a port takes part in any connection.
func (g *Graph) IsConnected(ref PortRef) bool {
	for _, c := range g.NodeConnections(ref.Node) {
		if c.From == ref || c.To == ref {
			return true
		}
	}
	return false
}

// reaches reports whether target is downstream of start.
func reaches(conns []Connection, start, target nodeid.ID) bool {
	adj := make(map[nodeid.ID][]nodeid.ID)
	for _, c := range conns {
		adj[c.From.Node] = append(adj[c.From.Node], c.To.Node)
	}
	visited := make(map[nodeid.ID]bool)
	var dfs func(id nodeid.ID) bool
	dfs = func(id nodeid.ID) bool {
		if id == target {
			return true
		}
		visited[id] = true
		for _, next := range adj[id] {
			if !visited[next] && dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}
