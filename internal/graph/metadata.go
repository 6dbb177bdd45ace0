package graph

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Built-in type names.
const (
	TypeNetwork = "network"
	TypeInput   = "input"
	TypeOutput  = "output"
)

// Kind classifies a metadata so that boundary handling can switch on it
// instead of comparing type names.
type Kind int

const (
	// KindNode is an ordinary compute node.
	KindNode Kind = iota
	// KindNetwork is a node that owns children and connections.
	KindNetwork
	// KindInput marks an input boundary pseudo-node of a subnetwork.
	KindInput
	// KindOutput marks an output boundary pseudo-node of a subnetwork.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindNetwork:
		return "network"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsBoundary reports whether the kind is one of the pseudo-node kinds.
func (k Kind) IsBoundary() bool {
	return k == KindInput || k == KindOutput
}

// Category is the direction of an attribute.
type Category int

const (
	Input Category = iota
	Output
)

func (c Category) String() string {
	if c == Output {
		return "output"
	}
	return "input"
}

// Flags holds presentation hints of an attribute.
type Flags uint8

const (
	FlagNone       Flags = 0
	FlagVertical   Flags = 1
	FlagHorizontal Flags = 2
)

// Attribute describes one typed, named port slot.
type Attribute struct {
	Name     string
	Type     cty.Type
	Category Category
	Flags    Flags
	// Default is the initial stored value. A null or zero default
	// initialises the slot with a null value of Type.
	Default cty.Value
}

// ComputeFunc evaluates a node. It reads inputs and writes outputs through io.
type ComputeFunc func(ctx context.Context, io *Values) error

// Metadata is the type descriptor of a node. Handles are compared by pointer
// identity and must not be modified after construction.
type Metadata struct {
	typeName    string
	description string
	kind        Kind
	attrs       []Attribute
	compute     ComputeFunc
}

// NewMetadata creates a metadata handle.
func NewMetadata(typeName string, kind Kind, attrs []Attribute, compute ComputeFunc) *Metadata {
	cp := make([]Attribute, len(attrs))
	copy(cp, attrs)
	return &Metadata{
		typeName: typeName,
		kind:     kind,
		attrs:    cp,
		compute:  compute,
	}
}

// WithDescription sets the human readable description and returns m.
func (m *Metadata) WithDescription(desc string) *Metadata {
	m.description = desc
	return m
}

// NetworkMetadata returns a fresh handle for an empty network type.
func NetworkMetadata() *Metadata {
	return NewMetadata(TypeNetwork, KindNetwork, nil, nil).WithDescription("A subnetwork of nodes.")
}

// InputMetadata returns a fresh handle for the input pseudo-node type.
func InputMetadata() *Metadata {
	return NewMetadata(TypeInput, KindInput, []Attribute{
		{Name: "data", Type: cty.DynamicPseudoType, Category: Output},
	}, nil).WithDescription("Exposes a subnetwork input.")
}

// OutputMetadata returns a fresh handle for the output pseudo-node type.
func OutputMetadata() *Metadata {
	return NewMetadata(TypeOutput, KindOutput, []Attribute{
		{Name: "data", Type: cty.DynamicPseudoType, Category: Input},
	}, nil).WithDescription("Exposes a subnetwork output.")
}

func (m *Metadata) Type() string        { return m.typeName }
func (m *Metadata) Description() string { return m.description }
func (m *Metadata) Kind() Kind          { return m.kind }
func (m *Metadata) Compute() ComputeFunc {
	return m.compute
}

// Len returns the number of attributes.
func (m *Metadata) Len() int { return len(m.attrs) }

// Attribute returns the attribute at index i.
func (m *Metadata) Attribute(i int) Attribute { return m.attrs[i] }

// Attributes returns a copy of the attribute list.
func (m *Metadata) Attributes() []Attribute {
	cp := make([]Attribute, len(m.attrs))
	copy(cp, m.attrs)
	return cp
}

// Index returns the index of the attribute with the given name.
func (m *Metadata) Index(name string) (int, bool) {
	for i, a := range m.attrs {
		if a.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (m *Metadata) String() string {
	return m.typeName
}

// MapAttributes matches the attributes of from against to by name, type and
// category. The result maps a source index to a destination index.
func MapAttributes(from, to *Metadata) map[int]int {
	out := make(map[int]int)
	for i, src := range from.attrs {
		for j, dst := range to.attrs {
			if src.Name == dst.Name && src.Category == dst.Category && src.Type.Equals(dst.Type) {
				out[i] = j
				break
			}
		}
	}
	return out
}

// IsSaveable reports whether values of ty can be written to JSON. Capsule
// types, and anything containing one, are not saveable.
func IsSaveable(ty cty.Type) bool {
	switch {
	case ty == cty.NilType:
		return false
	case ty.IsCapsuleType():
		return false
	case ty.IsListType(), ty.IsSetType(), ty.IsMapType():
		return IsSaveable(ty.ElementType())
	case ty.IsObjectType():
		for _, at := range ty.AttributeTypes() {
			if !IsSaveable(at) {
				return false
			}
		}
		return true
	case ty.IsTupleType():
		for _, et := range ty.TupleElementTypes() {
			if !IsSaveable(et) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// typesCompatible reports whether a value of type from may flow into a slot
// of type to.
func typesCompatible(from, to cty.Type) bool {
	if from.Equals(cty.DynamicPseudoType) || to.Equals(cty.DynamicPseudoType) {
		return true
	}
	return from.Equals(to)
}
