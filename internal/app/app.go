package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/gridedit/internal/clipboard"
	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/docstore"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/registry"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// App encapsulates the editing context: one root graph, one undo stack, the
// node type registry and the clipboard.
type App struct {
	outW      io.Writer
	ctx       context.Context
	logger    *slog.Logger
	registry  *registry.Registry
	graph     *graph.Graph
	stack     *undo.Stack
	clipboard clipboard.Clipboard
	store     docstore.Store
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// The manifests embedded in modules are loaded first, then the files under
// appConfig.TypesPath.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	reg.SetLogger(logger)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	model := config.NewModel()
	for _, m := range reg.Manifests() {
		loaded, err := loader.LoadSource(ctx, m.Filename, m.Source)
		if err != nil {
			panic(fmt.Errorf("failed to load module manifest: %w", err))
		}
		if err := model.Merge(loaded); err != nil {
			panic(err)
		}
	}
	if appConfig.TypesPath != "" {
		loaded, err := loader.Load(ctx, appConfig.TypesPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		if err := model.Merge(loaded); err != nil {
			panic(err)
		}
	}
	logger.Debug("Node type manifests loaded.", "types", len(model.NodeTypes))

	if err := reg.PopulateDefinitionsFromModel(model); err != nil {
		panic(err)
	}
	// This is a programmer error (mismatch between code and config), so we panic.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "types", len(reg.Types()))

	return &App{
		outW:      outW,
		ctx:       ctx,
		logger:    logger,
		registry:  reg,
		graph:     graph.New(nil),
		stack:     undo.NewStack(),
		clipboard: clipboard.NewMemory(),
	}
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry { return a.registry }

// Graph returns the root graph.
func (a *App) Graph() *graph.Graph { return a.graph }

// Stack returns the undo stack.
func (a *App) Stack() *undo.Stack { return a.stack }

// Context returns the context carrying the application logger.
func (a *App) Context() context.Context { return a.ctx }

// SetClipboard replaces the in-memory clipboard, for example with a
// clipboard.SocketIO connected to the host editor.
func (a *App) SetClipboard(c clipboard.Clipboard) { a.clipboard = c }

// SetStore attaches a document store.
func (a *App) SetStore(s docstore.Store) { a.store = s }

// Execute runs an interactive edit. It either applies completely or leaves
// the graph untouched.
func (a *App) Execute(action undo.Action) (*undo.State, error) {
	return a.stack.Execute(a.ctx, a.graph, action, true)
}

// Undo reverts the last edit.
func (a *App) Undo() error { return a.stack.Undo(a.ctx, a.graph) }

// Redo replays the last undone edit.
func (a *App) Redo() error { return a.stack.Redo(a.ctx, a.graph) }

// Close releases the clipboard connection and the document store.
func (a *App) Close() error {
	var firstErr error
	if c, ok := a.clipboard.(io.Closer); ok {
		firstErr = c.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
