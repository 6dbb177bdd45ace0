// Package config defines the format-agnostic model of node type manifests,
// along with the Loader interface for reading it from concrete formats.
//
// The `config.Model` is what the registry turns into graph metadata.
// Concrete implementations of the Loader, such as for HCL, are provided in
// separate packages.
package config
