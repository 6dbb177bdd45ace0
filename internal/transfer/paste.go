package transfer

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/actions"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// Types resolves registered type names to metadata.
type Types interface {
	Lookup(name string) (*graph.Metadata, bool)
}

type paster struct {
	types Types
	state *undo.State
}

// FromJSON builds the action that pastes doc into the network parent. Every
// node receives a fresh ID; the IDs of the top level nodes are returned so
// the caller can select them. Nodes of unknown types and connections naming
// unknown keys are reported on state and skipped.
//
// Each level is built in document order, falling back to type and ordinal
// order for keys the document did not order: nodes are created, networks are filled
// recursively, port values are set and finally the level's connections are
// made.
func FromJSON(types Types, parent nodeid.ID, doc *Document, state *undo.State) (undo.Action, []nodeid.ID) {
	p := &paster{types: types, state: state}
	return p.level(parent, doc.Nodes, doc.order, doc.Connections)
}

func (p *paster) level(parent nodeid.ID, nodes map[string]*NodeJSON, order []string, conns []ConnectionJSON) (undo.Action, []nodeid.ID) {
	var a undo.Action
	ids := make(map[string]nodeid.ID, len(nodes))
	var created []nodeid.ID

	for _, key := range orderedKeys(nodes, order) {
		nj := nodes[key]
		if nj == nil {
			p.state.AddWarning("node '%s' is empty, skipped", key)
			continue
		}
		meta, ok := p.types.Lookup(nj.Type)
		if !ok {
			p.state.AddError("node '%s' ('%s') has unknown type '%s', skipped", key, nj.Name, nj.Type)
			continue
		}
		id := nodeid.New()
		ids[key] = id
		created = append(created, id)
		a.Append(actions.CreateNodeAction(parent, meta, nj.Name, nj.BlindData, id, nil))

		portMeta := meta
		if meta.Kind() == graph.KindNetwork {
			sub, _ := p.level(id, nj.Nodes, nj.order, nj.Connections)
			a.Append(sub)
			portMeta = p.provisionalNetwork(nj)
		}
		a.Append(actions.SetValuesFromJSON(portMeta, id, nj.Ports, p.state))
	}

	for _, c := range conns {
		from, okFrom := ids[c.OutNode]
		to, okTo := ids[c.InNode]
		if !okFrom || !okTo {
			p.state.AddWarning("connection %s refers to a node that was not pasted, skipped", c)
			continue
		}
		a.Append(actions.ConnectAction(actions.PortNamed(from, c.OutPort), actions.PortNamed(to, c.InPort)))
	}
	return a, created
}

// provisionalNetwork describes the attributes the network nj will have once
// its boundary is rebuilt: one per input and output pseudo-node. It only
// serves to check port names; values are decoded against the real
// attributes when the commands run.
func (p *paster) provisionalNetwork(nj *NodeJSON) *graph.Metadata {
	var attrs []graph.Attribute
	for _, key := range orderedKeys(nj.Nodes, nj.order) {
		child := nj.Nodes[key]
		if child == nil {
			continue
		}
		m, ok := p.types.Lookup(child.Type)
		if !ok {
			continue
		}
		switch m.Kind() {
		case graph.KindInput:
			attrs = append(attrs, graph.Attribute{Name: child.Name, Type: cty.DynamicPseudoType, Category: graph.Input})
		case graph.KindOutput:
			attrs = append(attrs, graph.Attribute{Name: child.Name, Type: cty.DynamicPseudoType, Category: graph.Output})
		}
	}
	return graph.NewMetadata(nj.Type, graph.KindNetwork, attrs, nil)
}
