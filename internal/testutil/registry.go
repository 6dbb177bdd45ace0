package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/hcl"
	"github.com/specialistvlad/gridedit/internal/registry"
)

// Manifest declares the node types every test registry knows about.
const Manifest = `
node_type "const" {
  description = "Emits its value."
  compute     = "test.const"

  input "value" {
    type    = number
    default = 0
  }
  output "out" {
    type = number
  }
}

node_type "add" {
  description = "Adds two numbers."
  compute     = "test.add"

  input "in1" {
    type    = number
    default = 0
  }
  input "in2" {
    type    = number
    default = 0
    layout  = "horizontal"
  }
  output "out" {
    type = number
  }
}

node_type "concat" {
  compute = "test.concat"

  input "a" {
    type = string
  }
  input "b" {
    type = string
  }
  output "out" {
    type = string
  }
}

node_type "relay" {
  compute = "test.relay"

  input "value" {
    type = any
  }
  output "out" {
    type = any
  }
}
`

// Registry returns a validated registry holding the built-in types and the
// types of Manifest. Its logs are kept in a buffer and only shown for failed
// tests.
func Registry(t *testing.T) *registry.Registry {
	t.Helper()
	ctx, logs := LoggedContext()
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("--- Registry log for %s ---\n%s", t.Name(), logs.String())
		}
	})
	r := registry.New()
	r.SetLogger(ctxlog.FromContext(ctx))
	RegisterComputes(r)

	model, err := hcl.NewLoader().LoadSource(ctx, "testutil.hcl", []byte(Manifest))
	require.NoError(t, err)
	require.NoError(t, r.PopulateDefinitionsFromModel(model))
	require.NoError(t, r.ValidateRegistry(ctx))
	return r
}

// RegisterComputes registers the compute functions Manifest refers to.
func RegisterComputes(r *registry.Registry) {
	r.RegisterCompute("test.const", relay)
	r.RegisterCompute("test.relay", relay)
	r.RegisterCompute("test.add", func(_ context.Context, io *graph.Values) error {
		a, err := io.Get(0)
		if err != nil {
			return err
		}
		b, err := io.Get(1)
		if err != nil {
			return err
		}
		if a.IsNull() || b.IsNull() {
			return io.Set(2, cty.NullVal(cty.Number))
		}
		return io.Set(2, a.Add(b))
	})
	r.RegisterCompute("test.concat", func(_ context.Context, io *graph.Values) error {
		a, err := io.Get(0)
		if err != nil {
			return err
		}
		b, err := io.Get(1)
		if err != nil {
			return err
		}
		if a.IsNull() || b.IsNull() {
			return io.Set(2, cty.NullVal(cty.String))
		}
		return io.Set(2, cty.StringVal(a.AsString()+b.AsString()))
	})
}

func relay(_ context.Context, io *graph.Values) error {
	v, err := io.Get(0)
	if err != nil {
		return err
	}
	return io.Set(1, v)
}

// Meta looks up a type that must exist.
func Meta(t *testing.T, r *registry.Registry, name string) *graph.Metadata {
	t.Helper()
	m, ok := r.Lookup(name)
	require.True(t, ok, "node type %q is not registered", name)
	return m
}
