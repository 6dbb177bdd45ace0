package config

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of every loaded node
// type manifest.
type Model struct {
	NodeTypes map[string]*NodeTypeDefinition
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{NodeTypes: make(map[string]*NodeTypeDefinition)}
}

// Add inserts def, refusing a second definition of the same type.
func (m *Model) Add(def *NodeTypeDefinition) error {
	if prev, exists := m.NodeTypes[def.Type]; exists {
		return fmt.Errorf("node type '%s' defined in %s is already defined in %s", def.Type, def.Source, prev.Source)
	}
	m.NodeTypes[def.Type] = def
	return nil
}

// Merge adds every definition of other.
func (m *Model) Merge(other *Model) error {
	for _, name := range other.TypeNames() {
		if err := m.Add(other.NodeTypes[name]); err != nil {
			return err
		}
	}
	return nil
}

// TypeNames returns the defined type names in sorted order.
func (m *Model) TypeNames() []string {
	names := make([]string, 0, len(m.NodeTypes))
	for name := range m.NodeTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Node Type Manifest Models ---

// NodeTypeDefinition is the format-agnostic representation of a node type.
type NodeTypeDefinition struct {
	Type        string
	Description string
	// Compute names the Go compute function registered by a module. Empty
	// means the node type has no compute.
	Compute string
	Inputs  []*AttributeDefinition
	Outputs []*AttributeDefinition
	// Source is the file the definition was read from, for diagnostics.
	Source string
}

// Layout values of an attribute.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// AttributeDefinition defines a single input or output of a node type.
type AttributeDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Layout      string
}
