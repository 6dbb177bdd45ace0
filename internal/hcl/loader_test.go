package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/config"
)

const addManifest = `
node_type "maths/add" {
  description = "Sums two numbers."
  compute     = "maths.add"

  input "a" {
    type    = number
    default = 0
  }
  input "b" {
    type   = number
    layout = "vertical"
  }
  output "out" {
    type = number
  }
}
`

func TestLoadSource_TranslatesNodeType(t *testing.T) {
	model, err := NewLoader().LoadSource(context.Background(), "add.hcl", []byte(addManifest))
	require.NoError(t, err)
	require.Contains(t, model.NodeTypes, "maths/add")

	def := model.NodeTypes["maths/add"]
	assert.Equal(t, "maths.add", def.Compute)
	assert.Equal(t, "Sums two numbers.", def.Description)
	assert.Equal(t, "add.hcl", def.Source)
	require.Len(t, def.Inputs, 2)
	require.Len(t, def.Outputs, 1)

	a := def.Inputs[0]
	assert.Equal(t, "a", a.Name)
	assert.True(t, a.Type.Equals(cty.Number))
	require.NotNil(t, a.Default)
	assert.True(t, a.Default.RawEquals(cty.NumberIntVal(0)))

	b := def.Inputs[1]
	assert.Nil(t, b.Default, "omitted default must stay unset")
	assert.Equal(t, config.LayoutVertical, b.Layout)
}

func TestLoadSource_TypeExpressions(t *testing.T) {
	testCases := []struct {
		expr string
		want cty.Type
	}{
		{"string", cty.String},
		{"bool", cty.Bool},
		{"any", cty.DynamicPseudoType},
		{"list(number)", cty.List(cty.Number)},
		{"map(string)", cty.Map(cty.String)},
		{"set(bool)", cty.Set(cty.Bool)},
		{"object({ x = number, label = string })", cty.Object(map[string]cty.Type{"x": cty.Number, "label": cty.String})},
	}
	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			src := `node_type "t" {
  output "out" {
    type = ` + tc.expr + `
  }
}`
			model, err := NewLoader().LoadSource(context.Background(), "t.hcl", []byte(src))
			require.NoError(t, err)
			got := model.NodeTypes["t"].Outputs[0].Type
			assert.True(t, got.Equals(tc.want), "got %s", got.FriendlyName())
		})
	}
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := map[string]string{
		"unknown type": `node_type "t" {
  input "x" { type = float }
}`,
		"any in collection": `node_type "t" {
  input "x" { type = list(any) }
}`,
		"duplicate attribute": `node_type "t" {
  input "x" { type = number }
  output "x" { type = number }
}`,
		"bad layout": `node_type "t" {
  input "x" {
    type   = number
    layout = "diagonal"
  }
}`,
		"syntax": `node_type "t" {`,
	}
	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().LoadSource(context.Background(), "bad.hcl", []byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad_WalksDirectoriesAndRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add.hcl"), []byte(addManifest), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	model, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{"maths/add"}, model.TypeNames())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "again.hcl"), []byte(addManifest), 0o600))
	_, err = NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}
