package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Datablock holds the stored value of every attribute of a node.
type Datablock struct {
	types  []cty.Type
	values []cty.Value
}

// NewDatablock creates a datablock for m with every slot set to its default.
func NewDatablock(m *Metadata) *Datablock {
	d := &Datablock{
		types:  make([]cty.Type, m.Len()),
		values: make([]cty.Value, m.Len()),
	}
	for i, a := range m.attrs {
		d.types[i] = a.Type
		d.values[i] = cty.NullVal(a.Type)
		if !a.Default.IsNull() {
			if v, err := convert.Convert(a.Default, a.Type); err == nil {
				d.values[i] = v
			}
		}
	}
	return d
}

// Len returns the number of slots.
func (d *Datablock) Len() int { return len(d.values) }

// Get returns the stored value of slot i.
func (d *Datablock) Get(i int) cty.Value { return d.values[i] }

// Type returns the declared type of slot i.
func (d *Datablock) Type(i int) cty.Type { return d.types[i] }

// Set stores v in slot i, converting it to the slot type when needed.
func (d *Datablock) Set(i int, v cty.Value) error {
	if i < 0 || i >= len(d.values) {
		return fmt.Errorf("slot %d out of range: %w", i, ErrPortNotFound)
	}
	ty := d.types[i]
	if v.IsNull() {
		d.values[i] = cty.NullVal(ty)
		return nil
	}
	if ty.Equals(cty.DynamicPseudoType) || v.Type().Equals(ty) {
		d.values[i] = v
		return nil
	}
	cv, err := convert.Convert(v, ty)
	if err != nil {
		return fmt.Errorf("cannot store %s in slot of type %s: %w", v.Type().FriendlyName(), ty.FriendlyName(), ErrIncompatible)
	}
	d.values[i] = cv
	return nil
}

// Clone returns an independent copy. cty values are immutable, so a shallow
// copy of the slices is sufficient.
func (d *Datablock) Clone() *Datablock {
	c := &Datablock{
		types:  make([]cty.Type, len(d.types)),
		values: make([]cty.Value, len(d.values)),
	}
	copy(c.types, d.types)
	copy(c.values, d.values)
	return c
}

// Compatible reports whether d has exactly the slot layout of m.
func (d *Datablock) Compatible(m *Metadata) bool {
	if len(d.types) != m.Len() {
		return false
	}
	for i, a := range m.attrs {
		if !d.types[i].Equals(a.Type) {
			return false
		}
	}
	return true
}
