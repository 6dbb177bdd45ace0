package app

import (
	"fmt"

	"github.com/specialistvlad/gridedit/internal/actions"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/transfer"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// Copy writes the selection to the clipboard.
func (a *App) Copy(sel *graph.Selection) error {
	doc, err := transfer.SelectionToJSON(a.graph, sel)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	data, err := transfer.Marshal(doc)
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err := a.clipboard.SetContent(string(data)); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	a.logger.Debug("Selection copied.", "nodes", len(doc.Nodes), "connections", len(doc.Connections))
	return nil
}

// Cut copies the selection and removes it in one undoable edit.
func (a *App) Cut(sel *graph.Selection) (*undo.State, error) {
	if err := a.Copy(sel); err != nil {
		return nil, err
	}
	remove, err := actions.RemoveAction(a.graph, sel)
	if err != nil {
		return nil, fmt.Errorf("cut: %w", err)
	}
	return a.Execute(remove)
}

// Paste inserts the clipboard content into the network parent and returns
// the selection of pasted nodes. Pasting is best effort: problems are
// reported on the returned state and the rest of the content is kept.
func (a *App) Paste(parent nodeid.ID) (*undo.State, *graph.Selection, error) {
	text, err := a.clipboard.Content()
	if err != nil {
		return nil, nil, fmt.Errorf("paste: %w", err)
	}
	doc, err := transfer.Unmarshal([]byte(text))
	if err != nil {
		return nil, nil, fmt.Errorf("paste: %w", err)
	}
	return a.pasteDocument(parent, doc)
}

func (a *App) pasteDocument(parent nodeid.ID, doc *transfer.Document) (*undo.State, *graph.Selection, error) {
	if !a.graph.Has(parent) {
		return nil, nil, fmt.Errorf("paste into %s: %w", parent, graph.ErrNodeNotFound)
	}
	state := &undo.State{}
	action, ids := transfer.FromJSON(a.registry, parent, doc, state)
	executed, err := a.stack.Execute(a.ctx, a.graph, action, false)
	if err != nil {
		return state, nil, fmt.Errorf("paste: %w", err)
	}
	state.Merge(executed)

	sel := graph.NewSelection()
	for _, id := range ids {
		if a.graph.Has(id) {
			sel.AddNode(id)
		}
	}
	for _, d := range state.Diagnostics() {
		a.logger.Warn("Paste diagnostic.", "severity", d.Severity.String(), "message", d.Message)
	}
	a.logger.Info("Content pasted.", "nodes", len(sel.Nodes()), "diagnostics", len(state.Diagnostics()))
	return state, sel, nil
}
