package tool

import "errors"

var (
	// ErrDuplicateExtension is returned when registering an extension name
	// that already exists without requesting an overwrite.
	ErrDuplicateExtension = errors.New("tool: extension already registered")
	// ErrExtensionNotFound indicates an explicitly requested extension name
	// is not present in the registry.
	ErrExtensionNotFound = errors.New("tool: extension not found")
	// ErrNoExtensionAvailable indicates a default lookup against an empty
	// registry; no backend was registered in this environment.
	ErrNoExtensionAvailable = errors.New("tool: no extension available")
	// ErrDuplicateTool is returned when registering a tool name that is
	// already present in a directory.
	ErrDuplicateTool = errors.New("tool: tool already registered")
	// ErrToolNotFound indicates the requested tool name is not registered.
	ErrToolNotFound = errors.New("tool: tool not found")
)
