// Package undo provides transactional execution of graph edits.
//
// An Action is an ordered list of commands. Each command pairs a redo Op with
// the undo Op that reverses it. Undo runs the undo ops in reverse order.
// Ops are plain payload structs rather than closures, so a pending
// Action can be printed and inspected.
//
// A Stack executes Actions with all-or-nothing semantics (or best effort, for
// bulk loading) and keeps the undo and redo history:
//
//	Execute ──▶ undone: [A1 A2 A3]   redone: []
//	Undo    ──▶ undone: [A1 A2]      redone: [A3]
//	Redo    ──▶ undone: [A1 A2 A3]   redone: []
//
// A Stack is single-threaded and non-reentrant: calling Execute, Undo or Redo
// from inside an Op running on the same Stack returns ErrReentrant. Helpers
// that need to run a sub-edit from inside an Op use their own private Stack.
package undo
