/*
Package nodeid provides the globally unique identifier used for every node in
a graph, including nodes nested inside subnetworks.

Identifiers are minted once when a node is first created and are carried by
every command that recreates the node afterwards (undo of a removal, redo of a
creation), so a node keeps the same ID for its whole editing history. Pasted
nodes always receive fresh identifiers.
*/
package nodeid
