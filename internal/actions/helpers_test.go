package actions

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/registry"
	"github.com/specialistvlad/gridedit/internal/testutil"
	"github.com/specialistvlad/gridedit/internal/undo"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	reg   *registry.Registry
	g     *graph.Graph
	stack *undo.Stack
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, _ := testutil.LoggedContext()
	return &fixture{
		t:     t,
		ctx:   ctx,
		reg:   testutil.Registry(t),
		g:     graph.New(nil),
		stack: undo.NewStack(),
	}
}

func (f *fixture) meta(name string) *graph.Metadata {
	return testutil.Meta(f.t, f.reg, name)
}

func (f *fixture) run(a undo.Action) *undo.State {
	f.t.Helper()
	st, err := f.stack.Execute(f.ctx, f.g, a, true)
	require.NoError(f.t, err)
	return st
}

func (f *fixture) create(parent nodeid.ID, typeName, name string) nodeid.ID {
	f.t.Helper()
	id := nodeid.New()
	f.run(CreateNodeAction(parent, f.meta(typeName), name, nil, id, nil))
	return id
}

func (f *fixture) connect(from, to Endpoint) {
	f.t.Helper()
	f.run(ConnectAction(from, to))
}

func (f *fixture) stored(id nodeid.ID, port string) cty.Value {
	f.t.Helper()
	ref, err := PortNamed(id, port).Resolve(f.g)
	require.NoError(f.t, err)
	v, err := f.g.Stored(ref)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) value(id nodeid.ID, port string) cty.Value {
	f.t.Helper()
	ref, err := PortNamed(id, port).Resolve(f.g)
	require.NoError(f.t, err)
	v, err := f.g.Value(ref)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) node(id nodeid.ID) *graph.Node {
	f.t.Helper()
	n, ok := f.g.Node(id)
	require.True(f.t, ok, "node %s does not exist", id)
	return n
}

// roundTrip runs a, then checks that undo restores the previous graph and
// redo replays the same result.
func (f *fixture) roundTrip(a undo.Action) {
	f.t.Helper()
	before := testutil.Snapshot(f.g)
	f.run(a)
	after := testutil.Snapshot(f.g)

	require.NoError(f.t, f.stack.Undo(f.ctx, f.g))
	require.Empty(f.t, cmp.Diff(before, testutil.Snapshot(f.g)), "undo must restore the graph")
	require.NoError(f.t, f.stack.Redo(f.ctx, f.g))
	require.Empty(f.t, cmp.Diff(after, testutil.Snapshot(f.g)), "redo must replay the action")
}

func requireNumber(t *testing.T, want int64, got cty.Value) {
	t.Helper()
	require.True(t, got.RawEquals(cty.NumberIntVal(want)), "want %d, got %#v", want, got)
}

// passthrough creates a network holding an input pseudo-node x feeding an
// add node c whose result reaches the output pseudo-node y.
func (f *fixture) passthrough(parent nodeid.ID) (net, x, c, y nodeid.ID) {
	f.t.Helper()
	net = f.create(parent, graph.TypeNetwork, "net")
	x = f.create(net, graph.TypeInput, "x")
	c = f.create(net, "add", "c")
	y = f.create(net, graph.TypeOutput, "y")
	f.connect(Port(x, 0), PortNamed(c, "in1"))
	f.connect(PortNamed(c, "out"), Port(y, 0))
	return net, x, c, y
}
