package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/fsutil"
	"github.com/specialistvlad/gridedit/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found under paths. Paths that do not exist are
// skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.translateFile(ctx, model, hclFile, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "node_types", len(model.NodeTypes))
	return model, nil
}

// LoadSource parses a single manifest held in memory, such as one embedded
// by a module.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model := config.NewModel()
	if err := l.translateFile(ctx, model, hclFile, filename); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("HCL source loaded.", "file", filename, "node_types", len(model.NodeTypes))
	return model, nil
}

func (l *Loader) translateFile(ctx context.Context, model *config.Model, file *hcl.File, filename string) error {
	var root schema.ManifestConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	for _, nt := range root.NodeTypes {
		def, err := translateNodeType(ctx, nt)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		def.Source = filename
		if err := model.Add(def); err != nil {
			return err
		}
	}
	return nil
}
