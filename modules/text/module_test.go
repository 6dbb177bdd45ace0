package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/actions"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/hcl"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/registry"
	"github.com/specialistvlad/gridedit/internal/undo"
)

func TestConcatAndLength(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	(&Module{}).Register(r)
	for _, m := range r.Manifests() {
		model, err := hcl.NewLoader().LoadSource(ctx, m.Filename, m.Source)
		require.NoError(t, err)
		require.NoError(t, r.PopulateDefinitionsFromModel(model))
	}
	require.NoError(t, r.ValidateRegistry(ctx))

	concatMeta, ok := r.Lookup("text/concat")
	require.True(t, ok)
	lengthMeta, ok := r.Lookup("text/length")
	require.True(t, ok)

	g := graph.New(nil)
	c, l := nodeid.New(), nodeid.New()
	var a undo.Action
	a.Append(actions.CreateNodeAction(g.Root(), concatMeta, "join", nil, c, nil))
	a.Append(actions.CreateNodeAction(g.Root(), lengthMeta, "len", nil, l, nil))
	a.Append(actions.SetValueAction(actions.PortNamed(c, "a"), cty.StringVal("grid")))
	a.Append(actions.SetValueAction(actions.PortNamed(c, "b"), cty.StringVal("edit")))
	a.Append(actions.SetValueAction(actions.PortNamed(c, "separator"), cty.StringVal("-")))
	a.Append(actions.ConnectAction(actions.PortNamed(c, "out"), actions.PortNamed(l, "text")))
	_, err := undo.NewStack().Execute(ctx, g, a, true)
	require.NoError(t, err)

	require.NoError(t, g.Compute(ctx, c))
	require.NoError(t, g.Compute(ctx, l))

	joined, err := g.Stored(graph.PortRef{Node: c, Port: 3})
	require.NoError(t, err)
	assert.True(t, joined.RawEquals(cty.StringVal("grid-edit")))
	n, err := g.Stored(graph.PortRef{Node: l, Port: 1})
	require.NoError(t, err)
	assert.True(t, n.Equals(cty.NumberIntVal(9)).True())
}
