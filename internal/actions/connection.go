package actions

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
	"github.com/specialistvlad/gridedit/internal/nodeid"
	"github.com/specialistvlad/gridedit/internal/undo"
)

// connection is shared by a connect and a disconnect op. Disconnecting
// records the slot the connection held so connecting again restores it.
type connection struct {
	from, to Endpoint
	position int
}

func (c *connection) resolve(g *graph.Graph) (graph.Connection, error) {
	from, err := c.from.Resolve(g)
	if err != nil {
		return graph.Connection{}, err
	}
	to, err := c.to.Resolve(g)
	if err != nil {
		return graph.Connection{}, err
	}
	return graph.Connection{From: from, To: to}, nil
}

type connectOp struct{ c *connection }

func (o connectOp) Apply(ctx context.Context, g *graph.Graph) error {
	conn, err := o.c.resolve(g)
	if err != nil {
		return err
	}
	if err := g.Connect(conn, o.c.position); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Ports connected.", "from", g.Describe(conn.From), "to", g.Describe(conn.To))
	return nil
}

func (o connectOp) String() string { return fmt.Sprintf("connect %s -> %s", o.c.from, o.c.to) }

type disconnectOp struct{ c *connection }

func (o disconnectOp) Apply(ctx context.Context, g *graph.Graph) error {
	conn, err := o.c.resolve(g)
	if err != nil {
		return err
	}
	pos, err := g.Disconnect(conn)
	if err != nil {
		return err
	}
	o.c.position = pos
	ctxlog.FromContext(ctx).Debug("Ports disconnected.", "from", g.Describe(conn.From), "to", g.Describe(conn.To))
	return nil
}

func (o disconnectOp) String() string { return fmt.Sprintf("disconnect %s -> %s", o.c.from, o.c.to) }

// snapshot keeps the value a destination port held before it was connected.
type snapshot struct {
	port     Endpoint
	value    cty.Value
	captured bool
}

type captureOp struct{ s *snapshot }

func (o captureOp) Apply(_ context.Context, g *graph.Graph) error {
	if o.s.captured {
		return nil
	}
	ref, err := o.s.port.Resolve(g)
	if err != nil {
		return err
	}
	v, err := g.Stored(ref)
	if err != nil {
		return err
	}
	if !v.IsNull() {
		o.s.value = v
		o.s.captured = true
	}
	return nil
}

func (o captureOp) String() string { return "snapshot " + o.s.port.String() }

type restoreOp struct{ s *snapshot }

func (o restoreOp) Apply(_ context.Context, g *graph.Graph) error {
	if !o.s.captured {
		return nil
	}
	ref, err := o.s.port.Resolve(g)
	if err != nil {
		return err
	}
	return g.SetStored(ref, o.s.value)
}

func (o restoreOp) String() string { return "restore " + o.s.port.String() }

// connectCommands connects two ports without touching network boundaries.
func connectCommands(from, to Endpoint) undo.Action {
	var a undo.Action
	s := &snapshot{port: to}
	a.AddCommand("preserve "+to.String(), captureOp{s}, restoreOp{s})
	c := &connection{from: from, to: to, position: -1}
	a.AddCommand(fmt.Sprintf("connect %s -> %s", from, to), connectOp{c}, disconnectOp{c})
	return a
}

// disconnectCommands disconnects two ports without touching network
// boundaries.
func disconnectCommands(from, to Endpoint) undo.Action {
	var a undo.Action
	c := &connection{from: from, to: to, position: -1}
	a.AddCommand(fmt.Sprintf("disconnect %s -> %s", from, to), disconnectOp{c}, connectOp{c})
	return a
}

// ConnectAction connects an output port to an input port of a sibling node.
// Undoing it restores the value the input held before the connection. When
// either node is an input or output pseudo-node, the surrounding network's
// boundary is rebuilt.
func ConnectAction(from, to Endpoint) undo.Action {
	side := boundaryOf(from.Node, to.Node)
	var a undo.Action
	a.Append(unlinkAllAction(side))
	a.Append(connectCommands(from, to))
	a.Append(rebuildAction(side))
	return a
}

// DisconnectAction removes the connection between two ports, rebuilding the
// network boundary like ConnectAction does.
func DisconnectAction(from, to Endpoint) undo.Action {
	side := boundaryOf(from.Node, to.Node)
	var a undo.Action
	a.Append(unlinkAllAction(side))
	a.Append(disconnectCommands(from, to))
	a.Append(rebuildAction(side))
	return a
}

// ConnectPorts is ConnectAction for two port references.
func ConnectPorts(from, to graph.PortRef) undo.Action {
	return ConnectAction(At(from), At(to))
}

// DisconnectConnection is DisconnectAction for an existing connection.
func DisconnectConnection(c graph.Connection) undo.Action {
	return DisconnectAction(At(c.From), At(c.To))
}

// anyBoundary reports whether any of ids is an input or output pseudo-node.
func anyBoundary(g *graph.Graph, ids ...nodeid.ID) bool {
	for _, id := range ids {
		if n, ok := g.Node(id); ok && n.Kind().IsBoundary() {
			return true
		}
	}
	return false
}
