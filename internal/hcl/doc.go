// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for manifest parsing and for translating HCL
// blocks and type expressions into the format-agnostic config model.
package hcl
