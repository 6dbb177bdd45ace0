// Package app contains the core application logic. It defines the App
// struct, the process-wide editing context holding the root graph, the undo
// stack, the type registry and the clipboard, decoupled from any specific
// entrypoint like a CLI or a host editor.
package app
