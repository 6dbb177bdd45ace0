package actions

import (
	"fmt"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// Endpoint names a port by index or by name. Names are resolved when the
// command runs.
type Endpoint struct {
	Node  nodeid.ID
	Index int
	Name  string
}

// Port addresses port index of node id.
func Port(id nodeid.ID, index int) Endpoint {
	return Endpoint{Node: id, Index: index}
}

// PortNamed addresses the port called name on node id.
func PortNamed(id nodeid.ID, name string) Endpoint {
	return Endpoint{Node: id, Index: -1, Name: name}
}

// At converts a resolved port reference into an Endpoint.
func At(ref graph.PortRef) Endpoint {
	return Port(ref.Node, ref.Port)
}

// Resolve returns the port reference e points at.
func (e Endpoint) Resolve(g *graph.Graph) (graph.PortRef, error) {
	if e.Name == "" {
		return graph.PortRef{Node: e.Node, Port: e.Index}, nil
	}
	n, ok := g.Node(e.Node)
	if !ok {
		return graph.PortRef{}, fmt.Errorf("node %s: %w", e.Node, graph.ErrNodeNotFound)
	}
	i, ok := n.PortIndex(e.Name)
	if !ok {
		return graph.PortRef{}, fmt.Errorf("node '%s' (%s) has no port '%s': %w", n.Name(), n.Metadata().Type(), e.Name, graph.ErrPortNotFound)
	}
	return graph.PortRef{Node: e.Node, Port: i}, nil
}

func (e Endpoint) String() string {
	if e.Name != "" {
		return e.Node.Short() + "." + e.Name
	}
	return fmt.Sprintf("%s:%d", e.Node.Short(), e.Index)
}
