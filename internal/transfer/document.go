package transfer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridedit/internal/graph"
)

// Document is the payload exchanged through the clipboard and stored in
// document files.
// Nodes are encoded in the order they were copied and decoded in the order
// they appear in the text.
type Document struct {
	Nodes       map[string]*NodeJSON `json:"nodes"`
	Connections []ConnectionJSON     `json:"connections"`

	order []string
}

// NodeJSON is one serialized node. Nodes and Connections are only present
// for networks.
type NodeJSON struct {
	Name        string                     `json:"name"`
	Type        string                     `json:"type"`
	Ports       map[string]json.RawMessage `json:"ports"`
	BlindData   *graph.BlindData           `json:"blind_data"`
	Nodes       map[string]*NodeJSON       `json:"nodes,omitzero"`
	Connections []ConnectionJSON           `json:"connections,omitzero"`

	order []string
}

// ConnectionJSON is a connection between two nodes of the same level,
// addressed by document key and port name.
type ConnectionJSON struct {
	OutNode string `json:"out_node"`
	OutPort string `json:"out_port"`
	InNode  string `json:"in_node"`
	InPort  string `json:"in_port"`
}

func (c ConnectionJSON) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", c.OutNode, c.OutPort, c.InNode, c.InPort)
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Nodes:       make(map[string]*NodeJSON),
		Connections: []ConnectionJSON{},
	}
}

// Marshal encodes doc as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a document.
func Unmarshal(data []byte) (*Document, error) {
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Nodes == nil {
		doc.Nodes = make(map[string]*NodeJSON)
	}
	if doc.Connections == nil {
		doc.Connections = []ConnectionJSON{}
	}
	return doc, nil
}

// ShortTypeName returns the part of a type name after its last '/' or '.'.
func ShortTypeName(typeName string) string {
	if i := strings.LastIndexAny(typeName, "/."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}
