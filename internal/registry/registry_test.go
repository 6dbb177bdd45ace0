package registry

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
)

func noop(context.Context, *graph.Values) error { return nil }

func numberDefault(n int64) *cty.Value {
	v := cty.NumberIntVal(n)
	return &v
}

func addDefinition() *config.NodeTypeDefinition {
	return &config.NodeTypeDefinition{
		Type:    "add",
		Compute: "test.add",
		Inputs: []*config.AttributeDefinition{
			{Name: "in1", Type: cty.Number, Default: numberDefault(0)},
			{Name: "in2", Type: cty.Number, Layout: config.LayoutHorizontal},
		},
		Outputs: []*config.AttributeDefinition{
			{Name: "out", Type: cty.Number},
		},
		Source: "test.hcl",
	}
}

func TestNew_RegistersBuiltins(t *testing.T) {
	r := New()
	assert.Equal(t, []string{graph.TypeInput, graph.TypeNetwork, graph.TypeOutput}, r.Types())

	net, ok := r.Lookup(graph.TypeNetwork)
	require.True(t, ok)
	assert.Equal(t, graph.KindNetwork, net.Kind())

	in, ok := r.Lookup(graph.TypeInput)
	require.True(t, ok)
	assert.Equal(t, graph.KindInput, in.Kind())
}

func TestRegister_PanicsOnDuplicates(t *testing.T) {
	r := New()
	r.RegisterCompute("test.add", noop)
	assert.Panics(t, func() { r.RegisterCompute("test.add", noop) })
	assert.Panics(t, func() { r.RegisterType(graph.NetworkMetadata()) })
}

func TestValidateRegistry_BuildsMetadata(t *testing.T) {
	r := New()
	r.RegisterCompute("test.add", noop)
	model := config.NewModel()
	require.NoError(t, model.Add(addDefinition()))
	require.NoError(t, r.PopulateDefinitionsFromModel(model))

	require.NoError(t, r.ValidateRegistry(context.Background()))
	require.NoError(t, r.ValidateRegistry(context.Background()), "validation is idempotent")

	m, ok := r.Lookup("add")
	require.True(t, ok)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, graph.Input, m.Attribute(0).Category)
	assert.Equal(t, graph.Output, m.Attribute(2).Category)
	assert.Equal(t, graph.FlagHorizontal, m.Attribute(1).Flags)
	assert.NotNil(t, m.Compute())

	data := graph.NewDatablock(m)
	assert.True(t, data.Get(0).RawEquals(cty.NumberIntVal(0)))
	assert.True(t, data.Get(1).IsNull())
}

func TestValidateRegistry_ReportsMismatches(t *testing.T) {
	r := New()
	model := config.NewModel()
	require.NoError(t, model.Add(addDefinition()))
	bad := &config.NodeTypeDefinition{
		Type: "bad",
		Inputs: []*config.AttributeDefinition{
			{Name: "flag", Type: cty.Bool, Default: numberDefault(3)},
		},
	}
	require.NoError(t, model.Add(bad))
	require.NoError(t, model.Add(&config.NodeTypeDefinition{Type: graph.TypeNetwork}))
	require.NoError(t, r.PopulateDefinitionsFromModel(model))

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute function 'test.add' which is not registered")
	assert.Contains(t, err.Error(), "node type 'bad', input 'flag'")
	assert.Contains(t, err.Error(), "node type 'network': name is already registered")

	_, ok := r.Lookup("add")
	assert.False(t, ok)
}

func TestPopulateDefinitionsFromModel_RejectsRedefinition(t *testing.T) {
	r := New()
	first := config.NewModel()
	require.NoError(t, first.Add(addDefinition()))
	require.NoError(t, r.PopulateDefinitionsFromModel(first))

	second := config.NewModel()
	require.NoError(t, second.Add(addDefinition()))
	assert.Error(t, r.PopulateDefinitionsFromModel(second))
}

func TestRegistry_LogsToItsOwnLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	r := New()
	r.SetLogger(logger)
	r.RegisterCompute("test.relay", noop)
	model := config.NewModel()
	require.NoError(t, model.Add(&config.NodeTypeDefinition{
		Type:    "relay",
		Compute: "test.relay",
		Inputs:  []*config.AttributeDefinition{{Name: "value", Type: cty.DynamicPseudoType}},
		Outputs: []*config.AttributeDefinition{{Name: "out", Type: cty.DynamicPseudoType}},
		Source:  "test.hcl",
	}))
	require.NoError(t, r.PopulateDefinitionsFromModel(model))
	require.NoError(t, r.ValidateRegistry(ctx))

	assert.Contains(t, buf.String(), "Registering compute function.")
	assert.Contains(t, buf.String(), "type = any")
}
