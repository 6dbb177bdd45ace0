// Package text provides string node types.
package text

import (
	"context"
	_ "embed"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the compute functions and the manifest with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCompute("text.concat", Concat)
	r.RegisterCompute("text.length", Length)
	r.RegisterManifest("text/manifest.hcl", manifest)
}

func str(io *graph.Values, i int) (string, bool, error) {
	v, err := io.Get(i)
	if err != nil || v.IsNull() || !v.IsKnown() {
		return "", false, err
	}
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		return "", false, err
	}
	return s, true, nil
}

// Concat joins a and b with separator. A null a or b yields null.
func Concat(_ context.Context, io *graph.Values) error {
	a, okA, err := str(io, 0)
	if err != nil {
		return err
	}
	b, okB, err := str(io, 1)
	if err != nil {
		return err
	}
	sep, _, err := str(io, 2)
	if err != nil {
		return err
	}
	if !okA || !okB {
		return io.Set(3, cty.NullVal(cty.String))
	}
	return io.Set(3, cty.StringVal(a+sep+b))
}

// Length counts the grapheme clusters of text.
func Length(_ context.Context, io *graph.Values) error {
	v, err := io.Get(0)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return io.Set(1, cty.NullVal(cty.Number))
	}
	return io.Set(1, v.Length())
}
