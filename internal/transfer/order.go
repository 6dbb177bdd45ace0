package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/gridedit/internal/graph"
)

// nodeList is a node map encoded as a JSON object whose members follow
// order. Keys missing from order follow in keyLess order.
type nodeList struct {
	m     map[string]*NodeJSON
	order []string
}

func (l nodeList) IsZero() bool { return l.m == nil }

func (l nodeList) MarshalJSON() ([]byte, error) {
	if l.m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range orderedKeys(l.m, l.order) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(l.m[k])
		if err != nil {
			return nil, fmt.Errorf("node '%s': %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *nodeList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	m := make(map[string]*NodeJSON)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(m))
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			order = append(order, key)
		}
	}
	l.m, l.order = m, order
	return nil
}

type documentWire struct {
	Nodes       nodeList         `json:"nodes"`
	Connections []ConnectionJSON `json:"connections"`
}

// MarshalJSON writes the nodes in copy order.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentWire{Nodes: nodeList{d.Nodes, d.order}, Connections: d.Connections})
}

// UnmarshalJSON remembers the order of the nodes in data.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.Nodes, d.order, d.Connections = w.Nodes.m, w.Nodes.order, w.Connections
	return nil
}

type nodeWire struct {
	Name        string                     `json:"name"`
	Type        string                     `json:"type"`
	Ports       map[string]json.RawMessage `json:"ports"`
	BlindData   *graph.BlindData           `json:"blind_data"`
	Nodes       nodeList                   `json:"nodes,omitzero"`
	Connections []ConnectionJSON           `json:"connections,omitzero"`
}

// MarshalJSON writes the children of a network in copy order.
func (n NodeJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeWire{
		Name:        n.Name,
		Type:        n.Type,
		Ports:       n.Ports,
		BlindData:   n.BlindData,
		Nodes:       nodeList{n.Nodes, n.order},
		Connections: n.Connections,
	})
}

// UnmarshalJSON remembers the order of the children in data.
func (n *NodeJSON) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = NodeJSON{
		Name:        w.Name,
		Type:        w.Type,
		Ports:       w.Ports,
		BlindData:   w.BlindData,
		Nodes:       w.Nodes.m,
		Connections: w.Connections,
		order:       w.Nodes.order,
	}
	return nil
}

// orderedKeys returns the keys of m listed in order, then the others sorted
// by keyLess.
func orderedKeys[V any](m map[string]V, order []string) []string {
	keys := make([]string, 0, len(m))
	listed := make(map[string]struct{}, len(order))
	for _, k := range order {
		if _, ok := m[k]; !ok {
			continue
		}
		if _, dup := listed[k]; dup {
			continue
		}
		listed[k] = struct{}{}
		keys = append(keys, k)
	}
	var rest []string
	for k := range m {
		if _, ok := listed[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return keyLess(rest[i], rest[j]) })
	return append(keys, rest...)
}

// keyLess orders synthetic keys by type prefix, then by numeric ordinal, so
// that add_2 sorts before add_10.
func keyLess(a, b string) bool {
	pa, na := splitKey(a)
	pb, nb := splitKey(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitKey(k string) (string, int) {
	i := strings.LastIndexByte(k, '_')
	if i < 0 {
		return k, -1
	}
	n, err := strconv.Atoi(k[i+1:])
	if err != nil || n < 0 {
		return k, -1
	}
	return k[:i], n
}
