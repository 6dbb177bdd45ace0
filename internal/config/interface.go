package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads every manifest found under paths and translates it into
	// the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadSource translates a single in-memory manifest. filename is only
	// used in diagnostics.
	LoadSource(ctx context.Context, filename string, src []byte) (*Model, error)
}
