package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/actions"
	"github.com/specialistvlad/gridedit/internal/clipboard"
	"github.com/specialistvlad/gridedit/internal/docstore"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/hcl"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/testutil"
	"github.com/specialistvlad/gridedit/internal/undo"
)

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{DocumentPath: "doc.json", DocumentName: "doc"})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{DocumentPath: "doc.json", DBPath: "docs.db", DocumentName: "doc"})
	require.NoError(t, err)
	assert.Equal(t, "doc", cfg.DocumentName)
}

func TestNewApp_RegistersCoreTypes(t *testing.T) {
	a, logs := setupApp(t, nil)

	for _, name := range []string{graph.TypeNetwork, "maths/add", "maths/sum", "text/concat"} {
		_, ok := a.Registry().Lookup(name)
		assert.True(t, ok, name)
	}
	assert.Contains(t, logs.String(), "Registry validation passed.")
}

func TestNewApp_PanicsOnUnregisteredCompute(t *testing.T) {
	dir := t.TempDir()
	manifest := `node_type "custom/x" {
  compute = "custom.x"
  output "out" {
    type = number
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.hcl"), []byte(manifest), 0o644))

	assert.Panics(t, func() {
		NewApp(&testutil.SafeBuffer{}, &Config{DocumentPath: "x.json", TypesPath: dir}, hcl.NewLoader())
	})
}

func TestLoadJSON_ComputesAndClearsStack(t *testing.T) {
	a, _ := setupApp(t, nil)
	loadSample(t, a)

	g := a.Graph()
	k := testutil.Child(g, g.Root(), "k")
	sum := testutil.Child(g, g.Root(), "sum")
	require.False(t, k.IsZero())
	require.False(t, sum.IsZero())
	assert.False(t, a.Stack().CanUndo())

	require.NoError(t, g.Compute(a.Context(), k))
	require.NoError(t, g.Compute(a.Context(), sum))
	v, err := g.Stored(graph.PortRef{Node: sum, Port: 2})
	require.NoError(t, err)
	assert.True(t, v.Equals(cty.NumberIntVal(7)).True())
}

func TestLoadJSON_ReportsUnknownTypes(t *testing.T) {
	a, _ := setupApp(t, nil)

	state, err := a.LoadJSON([]byte(`{"nodes": {"x_0": {"name": "x", "type": "nope/x"}}, "connections": []}`))
	require.NoError(t, err)
	assert.True(t, state.HasErrors())
	assert.Equal(t, 1, a.Graph().Len())

	_, err = a.LoadJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestDocumentJSON_IsStable(t *testing.T) {
	a, _ := setupApp(t, nil)
	loadSample(t, a)

	first, err := a.DocumentJSON()
	require.NoError(t, err)
	_, err = a.LoadJSON(first)
	require.NoError(t, err)
	second, err := a.DocumentJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestExecuteUndoRedo(t *testing.T) {
	a, _ := setupApp(t, nil)
	loadSample(t, a)
	g := a.Graph()
	k := testutil.Child(g, g.Root(), "k")

	_, err := a.Execute(actions.RenameNodeAction(k, "seven"))
	require.NoError(t, err)
	n, _ := g.Node(k)
	assert.Equal(t, "seven", n.Name())

	require.NoError(t, a.Undo())
	n, _ = g.Node(k)
	assert.Equal(t, "k", n.Name())

	require.NoError(t, a.Redo())
	n, _ = g.Node(k)
	assert.Equal(t, "seven", n.Name())

	assert.ErrorIs(t, a.Redo(), undo.ErrNothingToRedo)
}

func TestCopyPaste(t *testing.T) {
	a, _ := setupApp(t, nil)
	loadSample(t, a)
	g := a.Graph()
	before := g.Len()

	sel := graph.NewSelection()
	sel.AddNode(testutil.Child(g, g.Root(), "k"))
	sel.AddNode(testutil.Child(g, g.Root(), "sum"))
	require.NoError(t, a.Copy(sel))

	state, pasted, err := a.Paste(g.Root())
	require.NoError(t, err)
	assert.Empty(t, state.Diagnostics())
	assert.Len(t, pasted.Nodes(), 2)
	assert.Equal(t, before+2, g.Len())
	for _, id := range pasted.Nodes() {
		assert.False(t, sel.HasNode(id))
		assert.Len(t, g.NodeConnections(id), 1)
	}

	require.NoError(t, a.Undo())
	assert.Equal(t, before, g.Len())
}

func TestCut(t *testing.T) {
	a, _ := setupApp(t, nil)
	loadSample(t, a)
	g := a.Graph()
	k := testutil.Child(g, g.Root(), "k")

	sel := graph.NewSelection()
	sel.AddNode(k)
	_, err := a.Cut(sel)
	require.NoError(t, err)
	assert.False(t, g.Has(k))

	content, err := a.clipboard.Content()
	require.NoError(t, err)
	assert.Contains(t, content, `"maths/const"`)

	require.NoError(t, a.Undo())
	assert.True(t, g.Has(k))
	sum := testutil.Child(g, g.Root(), "sum")
	assert.True(t, g.IsConnected(graph.PortRef{Node: sum, Port: 0}))
}

func TestPaste_Errors(t *testing.T) {
	a, _ := setupApp(t, nil)
	a.SetClipboard(clipboard.NewMemory())

	_, _, err := a.Paste(a.Graph().Root())
	assert.Error(t, err, "an empty clipboard is not a document")

	require.NoError(t, a.clipboard.SetContent(sampleDocument))
	_, _, err = a.Paste(a.Graph().Root())
	require.NoError(t, err)
	_, _, err = a.Paste(nodeid.New())
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestSaveAndLoadDocument(t *testing.T) {
	a, _ := setupApp(t, nil)
	assert.ErrorIs(t, a.SaveDocument("doc"), errNoStore)

	store, err := docstore.OpenSQLite(a.Context(), ":memory:")
	require.NoError(t, err)
	a.SetStore(store)
	loadSample(t, a)
	require.NoError(t, a.SaveDocument("doc"))

	_, err = a.LoadJSON([]byte(`{"nodes": {}, "connections": []}`))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Graph().Len())

	_, err = a.LoadDocument("doc")
	require.NoError(t, err)
	assert.Equal(t, 3, a.Graph().Len())

	_, err = a.LoadDocument("other")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "sample.json")
	require.NoError(t, os.WriteFile(docPath, []byte(sampleDocument), 0o644))
	cfg := &Config{
		DocumentPath: docPath,
		OutPath:      filepath.Join(dir, "out.json"),
		DBPath:       filepath.Join(dir, "docs.db"),
	}
	a, logs := setupApp(t, cfg)

	require.NoError(t, a.Run(a.Context(), cfg))
	assert.Contains(t, logs.String(), "Document saved.")

	out, err := os.ReadFile(cfg.OutPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"maths/add"`)

	store, err := docstore.OpenSQLite(a.Context(), cfg.DBPath)
	require.NoError(t, err)
	defer store.Close()
	stored, err := store.Load(a.Context(), "sample")
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(stored))
}

func TestRun_MissingDocument(t *testing.T) {
	cfg := &Config{DocumentPath: filepath.Join(t.TempDir(), "missing.json")}
	a, _ := setupApp(t, cfg)
	assert.Error(t, a.Run(a.Context(), cfg))
}

func TestDocumentName(t *testing.T) {
	assert.Equal(t, "graph", documentName("/tmp/docs/graph.json"))
	assert.Equal(t, "plain", documentName("plain"))
}
