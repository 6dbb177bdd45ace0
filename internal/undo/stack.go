package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
	"github.com/specialistvlad/gridedit/internal/graph"
)

var (
	ErrReentrant     = errors.New("undo: stack is already executing")
	ErrNothingToUndo = errors.New("undo: nothing to undo")
	ErrNothingToRedo = errors.New("undo: nothing to redo")
)

// CommandError reports the command that failed during Execute.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Stack holds the undo and redo history of executed actions.
type Stack struct {
	undone []Action
	redone []Action
	busy   bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) acquire() error {
	if s.busy {
		return ErrReentrant
	}
	s.busy = true
	return nil
}

func (s *Stack) release() { s.busy = false }

// Execute runs the redo ops of action against g.
//
// With haltOnError the first failure rolls back every command that already
// ran, in reverse order, and is returned as a *CommandError; the stack is
// left unchanged. Without it, failures are recorded in the returned State and
// the failing command is dropped from the committed action; whatever it did
// before failing is kept and is not undoable.
//
// The committed action holds only the commands that ran successfully. It is
// pushed onto the undo stack, unless empty, and the redo stack is cleared.
func (s *Stack) Execute(ctx context.Context, g *graph.Graph, action Action, haltOnError bool) (*State, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	ctx = ctxlog.With(ctx, "edit", len(s.undone)+1)
	logger := ctxlog.FromContext(ctx)
	state := &State{}
	var done Action

	for _, cmd := range action.commands {
		if err := cmd.Redo.Apply(ctx, g); err != nil {
			if haltOnError {
				logger.Debug("Command failed, rolling back action.", "command", cmd.Name, "rolled_back", done.Len(), "error", err)
				if rbErr := runUndo(ctx, g, done); rbErr != nil {
					logger.Error("Rollback failed, graph may be inconsistent.", "command", cmd.Name, "error", rbErr)
					return nil, errors.Join(&CommandError{Command: cmd.Name, Err: err}, rbErr)
				}
				return nil, &CommandError{Command: cmd.Name, Err: err}
			}
			logger.Warn("Command failed, continuing.", "command", cmd.Name, "error", err)
			state.AddError("%s: %v", cmd.Name, err)
			continue
		}
		done.commands = append(done.commands, cmd)
	}

	if !done.Empty() {
		s.undone = append(s.undone, done)
		s.redone = nil
	}
	logger.Debug("Action executed.", "commands", done.Len(), "failed", action.Len()-done.Len())
	return state, nil
}

// Undo reverts the most recently executed action.
func (s *Stack) Undo(ctx context.Context, g *graph.Graph) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if len(s.undone) == 0 {
		return ErrNothingToUndo
	}
	top := s.undone[len(s.undone)-1]
	if err := runUndo(ctx, g, top); err != nil {
		return err
	}
	s.undone = s.undone[:len(s.undone)-1]
	s.redone = append(s.redone, top)
	ctxlog.FromContext(ctx).Debug("Action undone.", "commands", top.Len())
	return nil
}

// Redo re-applies the most recently undone action. If a command fails, the
// commands already re-applied are undone and the action stays on the redo
// stack.
func (s *Stack) Redo(ctx context.Context, g *graph.Graph) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if len(s.redone) == 0 {
		return ErrNothingToRedo
	}
	top := s.redone[len(s.redone)-1]
	for i, cmd := range top.commands {
		if err := cmd.Redo.Apply(ctx, g); err != nil {
			cmdErr := &CommandError{Command: cmd.Name, Err: err}
			if rbErr := runUndo(ctx, g, Action{commands: top.commands[:i]}); rbErr != nil {
				ctxlog.FromContext(ctx).Error("Redo rollback failed, graph may be inconsistent.", "command", cmd.Name, "error", rbErr)
				return errors.Join(cmdErr, rbErr)
			}
			return cmdErr
		}
	}
	s.redone = s.redone[:len(s.redone)-1]
	s.undone = append(s.undone, top)
	ctxlog.FromContext(ctx).Debug("Action redone.", "commands", top.Len())
	return nil
}

// Clear drops the whole history.
func (s *Stack) Clear() {
	s.undone = nil
	s.redone = nil
}

// Empty reports whether there is nothing left to undo. Undone actions
// waiting on the redo side do not count.
func (s *Stack) Empty() bool {
	return len(s.undone) == 0
}

func (s *Stack) CanUndo() bool { return len(s.undone) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redone) > 0 }
func (s *Stack) UndoLen() int  { return len(s.undone) }
func (s *Stack) RedoLen() int  { return len(s.redone) }

func runUndo(ctx context.Context, g *graph.Graph, a Action) error {
	for i := len(a.commands) - 1; i >= 0; i-- {
		cmd := a.commands[i]
		if err := cmd.Undo.Apply(ctx, g); err != nil {
			return &CommandError{Command: "undo " + cmd.Name, Err: err}
		}
	}
	return nil
}
