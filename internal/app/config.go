package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DocumentPath string // document to load
	TypesPath    string // extra node type manifests, hcl files

	OutPath      string // normalised document output, optional
	DBPath       string // sqlite document store, optional
	DocumentName string // name under which the document is stored
	ClipboardURL string // socket.io server mirroring the host clipboard, optional

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.DocumentPath == "" {
		return nil, errors.New("DocumentPath is a required configuration field and cannot be empty")
	}
	if cfg.DocumentName != "" && cfg.DBPath == "" {
		return nil, errors.New("a document name requires a document store path")
	}
	return &cfg, nil
}
