// Package cli parses the gridedit command line into an app.Config and maps
// usage errors to process exit codes.
package cli
