package tool

import (
	"context"
	"fmt"
	"sync"
)

// Tool is a named capability that routes one call through a selected
// backend extension. Arguments arrive as a keyword map so the directory
// can dispatch without knowing the tool's concrete request shape; each
// tool validates and decodes its own arguments before any backend is
// resolved.
//
// Contract:
//   - Run must validate arguments and fail fast before backend selection.
//   - Run must honor ctx cancellation across backend I/O.
//   - A result that holds resources (an open response body) is returned
//     to the caller, who owns its release.
type Tool interface {
	Name() string
	Run(ctx context.Context, args map[string]any) (any, error)
}

// Directory maps tool names to Tool instances. It is populated during
// initialization and read-mostly afterwards.
type Directory struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewDirectory creates an empty tool directory.
func NewDirectory() *Directory {
	return &Directory{
		tools: make(map[string]Tool),
	}
}

var (
	global     *Directory
	globalOnce sync.Once
)

// Global returns the process-wide tool directory.
func Global() *Directory {
	globalOnce.Do(func() {
		global = NewDirectory()
	})
	return global
}

// Register adds a tool under its own name. Registering a name twice fails
// with ErrDuplicateTool.
func (d *Directory) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool: tool is nil")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool: tool name is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	d.tools[name] = t
	d.order = append(d.order, name)
	return nil
}

// Lookup returns a tool by name.
func (d *Directory) Lookup(name string) (Tool, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Run resolves name and invokes the tool with args. An unregistered name
// fails with ErrToolNotFound.
func (d *Directory) Run(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := d.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t.Run(ctx, args)
}
