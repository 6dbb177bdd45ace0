package actions

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/undo"
)

type linkOp struct{ l *graph.Link }

func (o linkOp) Apply(_ context.Context, g *graph.Graph) error { return g.Link(*o.l) }
func (o linkOp) String() string {
	return fmt.Sprintf("link %s:%d => %s:%d", o.l.From.Node.Short(), o.l.From.Port, o.l.To.Node.Short(), o.l.To.Port)
}

type unlinkOp struct{ l *graph.Link }

func (o unlinkOp) Apply(_ context.Context, g *graph.Graph) error {
	got, err := g.Unlink(o.l.From)
	if err != nil {
		return err
	}
	*o.l = got
	return nil
}

func (o unlinkOp) String() string {
	return fmt.Sprintf("unlink %s:%d", o.l.From.Node.Short(), o.l.From.Port)
}

// LinkAction adds a passthrough link across a network boundary.
func LinkAction(l graph.Link) undo.Action {
	var a undo.Action
	p := &l
	a.AddCommand("link", linkOp{p}, unlinkOp{p})
	return a
}

// UnlinkAction removes the link whose source is from. The target is
// captured when the command runs.
func UnlinkAction(from graph.PortRef) undo.Action {
	var a undo.Action
	p := &graph.Link{From: from}
	a.AddCommand("unlink", unlinkOp{p}, linkOp{p})
	return a
}
