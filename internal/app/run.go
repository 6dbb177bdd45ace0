package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gridedit/internal/clipboard"
	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/docstore"
	"github.com/specialistvlad/gridedit/internal/graph"
)

// Run loads the configured document, reports its diagnostics and writes the
// normalised result to the configured outputs.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	data, err := os.ReadFile(appConfig.DocumentPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	state, err := a.LoadJSON(data)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", appConfig.DocumentPath, err)
	}
	for _, d := range state.Diagnostics() {
		fmt.Fprintln(a.outW, d.String())
	}
	a.logger.Info("Document loaded.", "path", appConfig.DocumentPath, "nodes", a.graph.Len()-1, "diagnostics", len(state.Diagnostics()))

	if appConfig.OutPath != "" {
		out, err := a.DocumentJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(appConfig.OutPath, out, 0o644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		a.logger.Info("Document written.", "path", appConfig.OutPath)
	}

	if appConfig.ClipboardURL != "" {
		if err := a.publish(ctx, appConfig.ClipboardURL); err != nil {
			return err
		}
	}

	if appConfig.DBPath != "" {
		store, err := docstore.OpenSQLite(ctx, appConfig.DBPath)
		if err != nil {
			return err
		}
		a.SetStore(store)
		defer a.Close()
		name := appConfig.DocumentName
		if name == "" {
			name = documentName(appConfig.DocumentPath)
		}
		if err := a.SaveDocument(name); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// publish connects the socket.io clipboard and copies the whole document to
// it, so that the host editor can paste it.
func (a *App) publish(ctx context.Context, url string) error {
	cb, err := clipboard.DialSocketIO(ctx, clipboard.SocketIOOptions{URL: url})
	if err != nil {
		return fmt.Errorf("failed to connect clipboard: %w", err)
	}
	a.SetClipboard(cb)
	sel := graph.NewSelection()
	children, err := a.graph.Children(a.graph.Root())
	if err != nil {
		return err
	}
	for _, id := range children {
		sel.AddNode(id)
	}
	conns, err := a.graph.Connections(a.graph.Root())
	if err != nil {
		return err
	}
	for _, c := range conns {
		sel.AddConnection(c)
	}
	return a.Copy(sel)
}

// documentName derives a store name from a file path: its base name without
// the extension.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
