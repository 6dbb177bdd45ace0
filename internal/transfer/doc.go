/*
Package transfer implements the JSON copy and paste protocol of the editor.

A Document is a tree of nodes keyed by synthetic local names such as
"add_0", with a flat list of connections that refer to nodes by those keys.
Network nodes carry their own nested nodes and connections:

	{
	  "nodes": {
	    "const_0": {"name": "k", "type": "const", "ports": {"value": 3}, "blind_data": null},
	    "add_0":   {"name": "b", "type": "add", "ports": {"in2": 5}, "blind_data": null}
	  },
	  "connections": [
	    {"out_node": "const_0", "out_port": "out", "in_node": "add_0", "in_port": "in1"}
	  ]
	}

Only unconnected inputs holding a non-null value of a saveable type are
written to "ports". Keys are local to one document and never survive a
paste; pasted nodes always receive fresh identifiers.
*/
package transfer
