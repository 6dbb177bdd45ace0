package transfer

import (
	"encoding/json"
	"fmt"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// copier assigns document keys. Ordinals count per short type name for the
// whole document, nested networks included.
type copier struct {
	g        *graph.Graph
	ordinals map[string]int
}

func newCopier(g *graph.Graph) *copier {
	return &copier{g: g, ordinals: make(map[string]int)}
}

func (c *copier) key(typeName string) string {
	short := ShortTypeName(typeName)
	k := fmt.Sprintf("%s_%d", short, c.ordinals[short])
	c.ordinals[short]++
	return k
}

// NetworkToJSON serializes every child and connection of the network netID.
func NetworkToJSON(g *graph.Graph, netID nodeid.ID) (*Document, error) {
	children, err := g.Children(netID)
	if err != nil {
		return nil, err
	}
	conns, err := g.Connections(netID)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	doc.Nodes, doc.order, doc.Connections, err = newCopier(g).level(children, conns)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SelectionToJSON serializes the selected nodes. A node below a selected
// network is written as part of that network. Only selected connections
// whose endpoints are both written are kept.
func SelectionToJSON(g *graph.Graph, sel *graph.Selection) (*Document, error) {
	selected := sel.Nodes()
	var top []nodeid.ID
	for _, id := range selected {
		covered := false
		for _, other := range selected {
			if other != id && g.IsAncestor(other, id) {
				covered = true
				break
			}
		}
		if !covered {
			top = append(top, id)
		}
	}
	doc := NewDocument()
	var err error
	doc.Nodes, doc.order, doc.Connections, err = newCopier(g).level(top, sel.Connections())
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// level serializes ids in the given order and returns the keys in that
// order.
func (c *copier) level(ids []nodeid.ID, conns []graph.Connection) (map[string]*NodeJSON, []string, []ConnectionJSON, error) {
	nodes := make(map[string]*NodeJSON, len(ids))
	order := make([]string, 0, len(ids))
	keys := make(map[nodeid.ID]string, len(ids))
	for _, id := range ids {
		n, ok := c.g.Node(id)
		if !ok {
			return nil, nil, nil, fmt.Errorf("node %s: %w", id, graph.ErrNodeNotFound)
		}
		k := c.key(n.Metadata().Type())
		nj, err := c.node(n)
		if err != nil {
			return nil, nil, nil, err
		}
		keys[id] = k
		nodes[k] = nj
		order = append(order, k)
	}

	out := []ConnectionJSON{}
	for _, conn := range conns {
		from, okFrom := keys[conn.From.Node]
		to, okTo := keys[conn.To.Node]
		if !okFrom || !okTo {
			continue
		}
		fromNode, _ := c.g.Node(conn.From.Node)
		toNode, _ := c.g.Node(conn.To.Node)
		out = append(out, ConnectionJSON{
			OutNode: from,
			OutPort: fromNode.PortName(conn.From.Port),
			InNode:  to,
			InPort:  toNode.PortName(conn.To.Port),
		})
	}
	return nodes, order, out, nil
}

func (c *copier) node(n *graph.Node) (*NodeJSON, error) {
	nj := &NodeJSON{
		Name:      n.Name(),
		Type:      n.Metadata().Type(),
		Ports:     make(map[string]json.RawMessage),
		BlindData: n.BlindData(),
	}
	data := n.Datablock()
	for i, attr := range n.Metadata().Attributes() {
		ref := graph.PortRef{Node: n.ID(), Port: i}
		if attr.Category != graph.Input || c.g.IsConnected(ref) {
			continue
		}
		v := data.Get(i)
		if v.IsNull() || !v.IsWhollyKnown() || !graph.IsSaveable(v.Type()) {
			continue
		}
		raw, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return nil, fmt.Errorf("node '%s', port '%s': %w", n.Name(), attr.Name, err)
		}
		nj.Ports[attr.Name] = raw
	}
	if n.IsNetwork() {
		conns, err := c.g.Connections(n.ID())
		if err != nil {
			return nil, err
		}
		nj.Nodes, nj.order, nj.Connections, err = c.level(n.Children(), conns)
		if err != nil {
			return nil, err
		}
	}
	return nj, nil
}
