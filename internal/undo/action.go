package undo

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/gridedit/internal/graph"
)

// Op is one reversible half of a command. Implementations carry everything
// they need as data fields.
type Op interface {
	Apply(ctx context.Context, g *graph.Graph) error
	String() string
}

// Command is a named pair of ops.
type Command struct {
	Name string
	Redo Op
	Undo Op
}

// Action is an ordered, composable list of commands.
type Action struct {
	commands []Command
}

// AddCommand appends a command. Both ops are required.
func (a *Action) AddCommand(name string, redo, undo Op) {
	if redo == nil || undo == nil {
		panic(fmt.Sprintf("undo: command %q requires both a redo and an undo op", name))
	}
	a.commands = append(a.commands, Command{Name: name, Redo: redo, Undo: undo})
}

// Append concatenates the commands of other, preserving order.
func (a *Action) Append(other Action) {
	a.commands = append(a.commands, other.commands...)
}

// Len returns the number of commands.
func (a *Action) Len() int { return len(a.commands) }

// Empty reports whether the action has no commands.
func (a *Action) Empty() bool { return len(a.commands) == 0 }

// Commands returns a copy of the command list.
func (a *Action) Commands() []Command {
	cp := make([]Command, len(a.commands))
	copy(cp, a.commands)
	return cp
}

// Names returns the command names in order.
func (a *Action) Names() []string {
	names := make([]string, len(a.commands))
	for i, c := range a.commands {
		names[i] = c.Name
	}
	return names
}

func (a Action) String() string {
	var sb strings.Builder
	for i, c := range a.commands {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s [redo: %s | undo: %s]", i+1, c.Name, c.Redo, c.Undo)
	}
	return sb.String()
}
