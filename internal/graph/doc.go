// Package graph provides the in-memory node-graph model that the editing
// engine mutates.
//
// # Ownership Model
//
// Every node lives in a single arena keyed by nodeid.ID. A node refers to its
// parent network by ID and a network refers to its children by ID; there are
// no pointers between nodes, so a removed node can never be reached through a
// stale reference:
//
//	┌──────────────────────────────────┐
//	│              Graph               │
//	│  nodes: map[nodeid.ID]*Node      │
//	│  links: source -> target         │
//	└───────┬──────────────────────────┘
//	        │ root
//	        ▼
//	   Network ──children──▶ Node, Node, Network ──children──▶ ...
//	      │
//	      └─connections (output -> input, same network)
//
// # Edges
//
// There are two distinct kinds of edge:
//   - **Connection:** a data dependency from an output port to an input port
//     of two nodes inside the same network.
//   - **Link:** a value passthrough between a network node's own port and the
//     port of one of its boundary pseudo-nodes ("input" / "output"). Links
//     relay values across the subnetwork boundary and are never connections.
//
// A port may not be both the destination of a connection and the target of a
// link.
//
// # Values
//
// Each node has a Datablock holding one stored value per attribute. Reading
// a port with Value follows the edges: a connected input yields its upstream
// output, a link target yields its link source, anything else yields the
// stored value. The stored value of a connected input is left untouched, so
// disconnecting an input reveals the value it held before it was connected.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. All mutation is expected to happen
// on a single goroutine through undo.Action values.
package graph
