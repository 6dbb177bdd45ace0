package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-types", "types", "-out", "o.json", "-db", "docs.db", "-name", "demo", "-log-level", "DEBUG", "doc.json"}, out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "doc.json", cfg.DocumentPath)
	assert.Equal(t, "types", cfg.TypesPath)
	assert.Equal(t, "o.json", cfg.OutPath)
	assert.Equal(t, "docs.db", cfg.DBPath)
	assert.Equal(t, "demo", cfg.DocumentName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_Usage(t *testing.T) {
	for name, args := range map[string][]string{
		"help":        {"-h"},
		"no document": {},
	} {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(args, out)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]struct {
		args []string
		msg  string
	}{
		"unknown flag":    {[]string{"-nope", "doc.json"}, "flag provided but not defined"},
		"two documents":   {[]string{"a.json", "b.json"}, "exactly one document"},
		"bad format":      {[]string{"-log-format", "xml", "doc.json"}, "invalid log-format"},
		"bad level":       {[]string{"-log-level", "loud", "doc.json"}, "invalid log-level"},
		"name without db": {[]string{"-name", "demo", "doc.json"}, "document store"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}
