// Package actions builds undoable graph edits.
//
// Every builder returns an undo.Action which the caller hands to an
// undo.Stack. Composite builders assemble their result by appending the
// actions of primitive builders:
//
//	RemoveAction ──▶ DisconnectAction... ──▶ RemoveNodeAction...
//	                                          └─▶ RemoveNetworkAction (recursive)
//	ChangeMetadataAction ──▶ disconnect ──▶ swap ──▶ reconnect mapped ports
//	BuildNetworkAction ──▶ unlink ──▶ ChangeMetadataAction ──▶ SetValue ──▶ link
//
// Builders that receive a *graph.Graph read it once to decide what to emit.
// Ops resolve port names and capture prior state when they run, so an action
// may refer to ports and nodes created by earlier commands of the same action.
//
// Edits that touch the input or output pseudo-node of a subnetwork keep the
// network boundary in sync: the boundary links are dropped, the edit is made,
// and the network is rebuilt on a private undo.Stack. The rebuild is undone
// through that private stack so the outer action reverses exactly.
package actions
