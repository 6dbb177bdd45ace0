package graph

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/gridedit/internal/nodeid"
)

// Link relays the value of From to To across a subnetwork boundary.
type Link struct {
	From PortRef
	To   PortRef
}

// Link adds l. One endpoint must be a network and the other one of its
// direct children.
func (g *Graph) Link(l Link) error {
	from, _, err := g.port(l.From)
	if err != nil {
		return err
	}
	to, toAttr, err := g.port(l.To)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("%s => %s", g.Describe(l.From), g.Describe(l.To))
	if from.parent != to.id && to.parent != from.id {
		return fmt.Errorf("cannot link %s: ports are not on a network boundary: %w", desc, ErrNotNetwork)
	}
	if _, ok := g.links[l.From]; ok {
		return fmt.Errorf("cannot link %s: source %w", desc, ErrLinked)
	}
	if _, ok := g.linkTargets[l.To]; ok {
		return fmt.Errorf("cannot link %s: target %w", desc, ErrLinked)
	}
	if toAttr.Category == Input {
		if _, ok := g.InputConnection(l.To); ok {
			return fmt.Errorf("cannot link %s: target %w", desc, ErrAlreadyConnected)
		}
	}
	g.links[l.From] = l.To
	g.linkTargets[l.To] = l.From
	return nil
}

// Unlink removes the link whose source is from.
func (g *Graph) Unlink(from PortRef) (Link, error) {
	to, ok := g.links[from]
	if !ok {
		return Link{}, fmt.Errorf("cannot unlink %s: %w", g.Describe(from), ErrNotLinked)
	}
	delete(g.links, from)
	delete(g.linkTargets, to)
	return Link{From: from, To: to}, nil
}

// LinkFrom returns the link whose source is ref.
func (g *Graph) LinkFrom(ref PortRef) (Link, bool) {
	to, ok := g.links[ref]
	return Link{From: ref, To: to}, ok
}

// LinkTo returns the link whose target is ref.
func (g *Graph) LinkTo(ref PortRef) (Link, bool) {
	from, ok := g.linkTargets[ref]
	return Link{From: from, To: ref}, ok
}

// Links returns every link touching the node id, sorted for determinism.
func (g *Graph) Links(id nodeid.ID) []Link {
	var out []Link
	for from, to := range g.links {
		if from.Node == id || to.Node == id {
			out = append(out, Link{From: from, To: to})
		}
	}
	sortLinks(out)
	return out
}

// AllLinks returns every link in the graph, sorted for determinism.
func (g *Graph) AllLinks() []Link {
	out := make([]Link, 0, len(g.links))
	for from, to := range g.links {
		out = append(out, Link{From: from, To: to})
	}
	sortLinks(out)
	return out
}

func sortLinks(links []Link) {
	sort.Slice(links, func(i, j int) bool {
		a, b := links[i].From, links[j].From
		if a.Node != b.Node {
			return a.Node.String() < b.Node.String()
		}
		return a.Port < b.Port
	})
}
