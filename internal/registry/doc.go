// Package registry provides the central "glue" for node types.
//
// The Registry stores the mappings between the string identifiers used in
// manifests (e.g., "maths.add") and the compiled Go compute functions that
// implement them. It also holds the parsed, format-agnostic node type
// definitions and, once validated, the graph metadata handle of every
// registered type name.
//
// During application startup, modules register their compute functions and
// embedded manifests, the manifests are loaded into definitions, and
// ValidateRegistry ensures that Go code and manifests are in sync before any
// metadata is handed out, preventing a wide class of runtime errors.
package registry
