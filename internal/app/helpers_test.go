package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/gridedit/internal/hcl"
	"github.com/specialistvlad/gridedit/internal/registry"
	"github.com/specialistvlad/gridedit/internal/testutil"
)

// sampleDocument is a constant feeding an adder.
const sampleDocument = `{
  "nodes": {
    "const_0": {"name": "k", "type": "maths/const", "ports": {"value": 3}},
    "add_0": {"name": "sum", "type": "maths/add", "ports": {"b": 4}}
  },
  "connections": [
    {"out_node": "const_0", "out_port": "out", "in_node": "add_0", "in_port": "a"}
  ]
}`

// setupApp creates an app with debug logging captured in the returned
// buffer. Without modules the core modules are registered.
func setupApp(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = &Config{DocumentPath: "unused.json"}
	}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("GRIDEDIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

func loadSample(t *testing.T, a *App) {
	t.Helper()
	state, err := a.LoadJSON([]byte(sampleDocument))
	require.NoError(t, err)
	require.Empty(t, state.Diagnostics())
}
