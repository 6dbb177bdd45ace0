// Package maths provides arithmetic node types.
package maths

import (
	"context"
	_ "embed"
	"fmt"

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
	r.RegisterCompute("maths.const", Const)
	r.RegisterCompute("maths.add", binary(func(a, b float64) float64 { return a + b }))
	r.RegisterCompute("maths.multiply", binary(func(a, b float64) float64 { return a * b }))
	r.RegisterCompute("maths.sum", Sum)
	r.RegisterManifest("maths/manifest.hcl", manifest)
}

func number(io *graph.Values, i int) (float64, bool, error) {
	v, err := io.Get(i)
	if err != nil {
		return 0, false, err
	}
	if v.IsNull() || !v.IsKnown() {
		return 0, false, nil
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, false, fmt.Errorf("port %d: %w", i, err)
	}
	return f, true, nil
}

func setNumber(io *graph.Values, i int, f float64) error {
	v, err := gocty.ToCtyValue(f, cty.Number)
	if err != nil {
		return err
	}
	return io.Set(i, v)
}

// Const copies its value to its output.
func Const(_ context.Context, io *graph.Values) error {
	v, err := io.Get(0)
	if err != nil {
		return err
	}
	return io.Set(1, v)
}

// binary computes out = op(a, b). A null operand yields a null result.
func binary(op func(a, b float64) float64) graph.ComputeFunc {
	return func(_ context.Context, io *graph.Values) error {
		a, okA, err := number(io, 0)
		if err != nil {
			return err
		}
		b, okB, err := number(io, 1)
		if err != nil {
			return err
		}
		if !okA || !okB {
			return io.Set(2, cty.NullVal(cty.Number))
		}
		return setNumber(io, 2, op(a, b))
	}
}

// Sum adds every element of its list input.
func Sum(_ context.Context, io *graph.Values) error {
	v, err := io.Get(0)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return setNumber(io, 1, 0)
	}
	var values []float64
	if err := gocty.FromCtyValue(v, &values); err != nil {
		return fmt.Errorf("values: %w", err)
	}
	total := 0.0
	for _, f := range values {
		total += f
	}
	return setNumber(io, 1, total)
}
