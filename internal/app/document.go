package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/transfer"
	"github.com/specialistvlad/gridedit/internal/undo"
)

var errNoStore = errors.New("no document store configured")

// DocumentJSON serializes the whole root network.
func (a *App) DocumentJSON() ([]byte, error) {
	doc, err := transfer.NetworkToJSON(a.graph, a.graph.Root())
	if err != nil {
		return nil, err
	}
	return transfer.Marshal(doc)
}

// LoadJSON replaces the graph with the document in data. Loading is best
// effort and not undoable: the undo stack is cleared afterwards.
func (a *App) LoadJSON(data []byte) (*undo.State, error) {
	doc, err := transfer.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	a.graph = graph.New(nil)
	a.stack.Clear()
	state, _, err := a.pasteDocument(a.graph.Root(), doc)
	a.stack.Clear()
	if err != nil {
		return state, err
	}
	return state, nil
}

// SaveDocument stores the root network under name.
func (a *App) SaveDocument(name string) error {
	if a.store == nil {
		return errNoStore
	}
	data, err := a.DocumentJSON()
	if err != nil {
		return err
	}
	if err := a.store.Save(a.ctx, name, data); err != nil {
		return err
	}
	a.logger.Info("Document saved.", "name", name, "bytes", len(data))
	return nil
}

// LoadDocument replaces the graph with the stored document name.
func (a *App) LoadDocument(name string) (*undo.State, error) {
	if a.store == nil {
		return nil, errNoStore
	}
	data, err := a.store.Load(a.ctx, name)
	if err != nil {
		return nil, err
	}
	state, err := a.LoadJSON(data)
	if err != nil {
		return state, fmt.Errorf("document %q: %w", name, err)
	}
	return state, nil
}
