package schema

import "github.com/hashicorp/hcl/v2"

// --- Node Type Manifest Schemas ---

// InputDefinition defines a single input port of a node type.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Layout      string         `hcl:"layout,optional"`
}

// OutputDefinition defines a single output port of a node type.
type OutputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Layout      string         `hcl:"layout,optional"`
}

// NodeTypeDefinition represents the HCL manifest of a `node_type` block.
type NodeTypeDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	Compute     string              `hcl:"compute,optional"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
}

// ManifestConfig represents the top-level structure of a manifest file.
type ManifestConfig struct {
	NodeTypes []*NodeTypeDefinition `hcl:"node_type,block"`
	Body      hcl.Body              `hcl:",remain"`
}
