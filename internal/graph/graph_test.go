package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

func constMeta() *Metadata {
	return NewMetadata("const", KindNode, []Attribute{
		{Name: "out", Type: cty.Number, Category: Output, Default: cty.NumberIntVal(1)},
	}, nil)
}

func addMeta() *Metadata {
	return NewMetadata("add", KindNode, []Attribute{
		{Name: "in1", Type: cty.Number, Category: Input, Default: cty.NumberIntVal(0)},
		{Name: "in2", Type: cty.Number, Category: Input, Default: cty.NumberIntVal(0)},
		{Name: "out", Type: cty.Number, Category: Output},
	}, func(_ context.Context, io *Values) error {
		a, err := io.Get(0)
		if err != nil {
			return err
		}
		b, err := io.Get(1)
		if err != nil {
			return err
		}
		return io.Set(2, a.Add(b))
	})
}

func mustAdd(t *testing.T, g *Graph, parent nodeid.ID, meta *Metadata, name string) nodeid.ID {
	t.Helper()
	id := nodeid.New()
	require.NoError(t, g.AddNode(parent, meta, name, id, nil, nil, -1))
	return id
}

func TestAddNode_DefaultsAndPosition(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")
	b := mustAdd(t, g, g.Root(), constMeta(), "b")
	c := nodeid.New()
	require.NoError(t, g.AddNode(g.Root(), constMeta(), "c", c, nil, nil, 0))

	children, err := g.Children(g.Root())
	require.NoError(t, err)
	assert.Equal(t, []nodeid.ID{c, a, b}, children)

	v, err := g.Stored(PortRef{Node: a, Port: 0})
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(1)))
	assert.Equal(t, 4, g.Len())
}

func TestAddNode_Errors(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")

	err := g.AddNode(g.Root(), constMeta(), "dup", a, nil, nil, -1)
	assert.ErrorIs(t, err, ErrNodeExists)

	err = g.AddNode(a, constMeta(), "child", nodeid.New(), nil, nil, -1)
	assert.ErrorIs(t, err, ErrNotNetwork)

	err = g.AddNode(nodeid.New(), constMeta(), "orphan", nodeid.New(), nil, nil, -1)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	err = g.AddNode(g.Root(), addMeta(), "bad", nodeid.New(), NewDatablock(constMeta()), nil, -1)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestRemoveNode_Guards(t *testing.T) {
	g := New(nil)
	net := mustAdd(t, g, g.Root(), NetworkMetadata(), "net")
	inner := mustAdd(t, g, net, constMeta(), "inner")

	_, err := g.RemoveNode(g.Root())
	assert.ErrorIs(t, err, ErrRoot)

	_, err = g.RemoveNode(net)
	assert.ErrorIs(t, err, ErrNotEmpty)

	pos, err := g.RemoveNode(inner)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = g.RemoveNode(net)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.False(t, g.Has(net))
}

func TestConnect_Validation(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")
	b := mustAdd(t, g, g.Root(), addMeta(), "b")
	c := mustAdd(t, g, g.Root(), addMeta(), "c")

	ab := Connection{From: PortRef{a, 0}, To: PortRef{b, 0}}
	require.NoError(t, g.Connect(ab, -1))

	t.Run("already connected", func(t *testing.T) {
		err := g.Connect(Connection{From: PortRef{c, 2}, To: PortRef{b, 0}}, -1)
		assert.ErrorIs(t, err, ErrAlreadyConnected)
	})
	t.Run("wrong direction", func(t *testing.T) {
		err := g.Connect(Connection{From: PortRef{b, 0}, To: PortRef{c, 0}}, -1)
		assert.ErrorIs(t, err, ErrPortNotFound)
	})
	t.Run("cycle", func(t *testing.T) {
		require.NoError(t, g.Connect(Connection{From: PortRef{b, 2}, To: PortRef{c, 0}}, -1))
		err := g.Connect(Connection{From: PortRef{c, 2}, To: PortRef{b, 1}}, -1)
		assert.ErrorIs(t, err, ErrCycle)
	})
	t.Run("self", func(t *testing.T) {
		err := g.Connect(Connection{From: PortRef{c, 2}, To: PortRef{c, 1}}, -1)
		assert.ErrorIs(t, err, ErrCycle)
	})
	t.Run("incompatible", func(t *testing.T) {
		s := mustAdd(t, g, g.Root(), NewMetadata("str", KindNode, []Attribute{
			{Name: "out", Type: cty.String, Category: Output},
		}, nil), "s")
		err := g.Connect(Connection{From: PortRef{s, 0}, To: PortRef{c, 1}}, -1)
		assert.ErrorIs(t, err, ErrIncompatible)
		assert.Contains(t, err.Error(), "'s'.'out'")
	})
	t.Run("different networks", func(t *testing.T) {
		net := mustAdd(t, g, g.Root(), NetworkMetadata(), "net")
		inner := mustAdd(t, g, net, addMeta(), "inner")
		err := g.Connect(Connection{From: PortRef{a, 0}, To: PortRef{inner, 0}}, -1)
		assert.ErrorIs(t, err, ErrNotNetwork)
	})

	_, err := g.RemoveNode(a)
	assert.ErrorIs(t, err, ErrConnected)

	pos, err := g.Disconnect(ab)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	_, err = g.Disconnect(ab)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestValue_PullsThroughConnections(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")
	b := mustAdd(t, g, g.Root(), addMeta(), "b")
	in1 := PortRef{b, 0}

	require.NoError(t, g.SetStored(in1, cty.NumberIntVal(7)))
	require.NoError(t, g.Connect(Connection{From: PortRef{a, 0}, To: in1}, -1))

	v, err := g.Value(in1)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(1)), "connected input must read upstream")

	stored, err := g.Stored(in1)
	require.NoError(t, err)
	assert.True(t, stored.RawEquals(cty.NumberIntVal(7)), "stored value stays untouched")

	require.NoError(t, g.SetStored(PortRef{b, 1}, cty.NumberIntVal(4)))
	require.NoError(t, g.Compute(context.Background(), b))
	out, err := g.Value(PortRef{b, 2})
	require.NoError(t, err)
	assert.True(t, out.RawEquals(cty.NumberIntVal(5)))
}

func TestLink_Rules(t *testing.T) {
	g := New(nil)
	net := mustAdd(t, g, g.Root(), NewMetadata("network", KindNetwork, []Attribute{
		{Name: "x", Type: cty.Number, Category: Input},
	}, nil), "net")
	in := mustAdd(t, g, net, InputMetadata(), "x")
	other := mustAdd(t, g, g.Root(), constMeta(), "other")

	l := Link{From: PortRef{net, 0}, To: PortRef{in, 0}}
	require.NoError(t, g.Link(l))
	assert.ErrorIs(t, g.Link(l), ErrLinked)
	assert.ErrorIs(t, g.Link(Link{From: PortRef{other, 0}, To: PortRef{in, 0}}), ErrNotNetwork)

	require.NoError(t, g.SetStored(PortRef{net, 0}, cty.NumberIntVal(3)))
	v, err := g.Value(PortRef{in, 0})
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(3)))

	_, _, err = g.SetMetadata(in, InputMetadata(), nil)
	assert.ErrorIs(t, err, ErrLinked)

	got, err := g.Unlink(l.From)
	require.NoError(t, err)
	assert.Equal(t, l, got)
	_, err = g.Unlink(l.From)
	assert.ErrorIs(t, err, ErrNotLinked)
	assert.Empty(t, g.AllLinks())
}

func TestSetMetadata_RequiresDisconnected(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")
	b := mustAdd(t, g, g.Root(), addMeta(), "b")
	c := Connection{From: PortRef{a, 0}, To: PortRef{b, 0}}
	require.NoError(t, g.Connect(c, -1))

	_, _, err := g.SetMetadata(b, constMeta(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnected))

	_, err = g.Disconnect(c)
	require.NoError(t, err)
	newMeta := constMeta()
	oldMeta, oldData, err := g.SetMetadata(b, newMeta, nil)
	require.NoError(t, err)
	assert.Equal(t, "add", oldMeta.Type())
	assert.Equal(t, 3, oldData.Len())

	n, _ := g.Node(b)
	assert.Same(t, newMeta, n.Metadata())
}

func TestSelect_AddsInternalConnections(t *testing.T) {
	g := New(nil)
	a := mustAdd(t, g, g.Root(), constMeta(), "a")
	b := mustAdd(t, g, g.Root(), addMeta(), "b")
	c := mustAdd(t, g, g.Root(), addMeta(), "c")
	ab := Connection{From: PortRef{a, 0}, To: PortRef{b, 0}}
	bc := Connection{From: PortRef{b, 2}, To: PortRef{c, 0}}
	require.NoError(t, g.Connect(ab, -1))
	require.NoError(t, g.Connect(bc, -1))

	sel := g.Select(a, b)
	assert.Equal(t, []nodeid.ID{a, b}, sel.Nodes())
	assert.Equal(t, []Connection{ab}, sel.Connections())
	assert.True(t, sel.HasNode(a))
	assert.False(t, sel.HasNode(c))
}
