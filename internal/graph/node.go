package graph

import (
	"encoding/json"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// BlindData is opaque, UI-only state attached to a node, such as its canvas
// position. The engine stores and copies it but never interprets it.
type BlindData struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Clone returns a deep copy of b. A nil receiver yields nil.
func (b *BlindData) Clone() *BlindData {
	if b == nil {
		return nil
	}
	v := make(json.RawMessage, len(b.Value))
	copy(v, b.Value)
	return &BlindData{Type: b.Type, Value: v}
}

// Node is a single vertex of the graph. Nodes are owned by the Graph arena;
// callers receive read-only views and mutate through Graph methods.
type Node struct {
	id     nodeid.ID
	name   string
	meta   *Metadata
	data   *Datablock
	blind  *BlindData
	parent nodeid.ID

	// Network state. Only populated when meta.Kind() == KindNetwork.
	children    []nodeid.ID
	connections []Connection
}

func (n *Node) ID() nodeid.ID         { return n.id }
func (n *Node) Name() string          { return n.name }
func (n *Node) Metadata() *Metadata   { return n.meta }
func (n *Node) Kind() Kind            { return n.meta.kind }
func (n *Node) Parent() nodeid.ID     { return n.parent }
func (n *Node) IsNetwork() bool       { return n.meta.kind == KindNetwork }
func (n *Node) BlindData() *BlindData { return n.blind.Clone() }

// Datablock returns a copy of the node's stored values.
func (n *Node) Datablock() *Datablock { return n.data.Clone() }

// Children returns the IDs of the node's children in insertion order.
func (n *Node) Children() []nodeid.ID {
	cp := make([]nodeid.ID, len(n.children))
	copy(cp, n.children)
	return cp
}

// Empty reports whether a network has neither children nor connections.
func (n *Node) Empty() bool {
	return len(n.children) == 0 && len(n.connections) == 0
}

// PortIndex resolves a port name.
func (n *Node) PortIndex(name string) (int, bool) {
	return n.meta.Index(name)
}

// PortName returns the name of port i, or "" when out of range.
func (n *Node) PortName(i int) string {
	if i < 0 || i >= n.meta.Len() {
		return ""
	}
	return n.meta.attrs[i].Name
}
