package httptool

import (
	"context"
	"fmt"
	"time"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

// ToolName is the name the HTTP tool registers under in a tool directory.
const ToolName = "http"

// Built-in backend extension names.
const (
	ExtensionNetHTTP  = "nethttp"
	ExtensionOTelHTTP = "otelhttp"
)

// Extension is one HTTP backend. It receives the request with the
// Extension field already stripped and returns an open Response the
// caller must Close.
type Extension func(ctx context.Context, req Request) (Response, error)

// Builtin returns the built-in backends keyed by name.
func Builtin() map[string]Extension {
	return map[string]Extension{
		ExtensionNetHTTP:  netHTTPExtension,
		ExtensionOTelHTTP: otelHTTPExtension,
	}
}

// BuiltinNames returns the built-in backend names in default
// registration order.
func BuiltinNames() []string {
	return []string{ExtensionNetHTTP, ExtensionOTelHTTP}
}

// RegisterBuiltin registers one built-in backend by name.
func RegisterBuiltin(reg *tool.Registry[Extension], name string) error {
	ext, ok := Builtin()[name]
	if !ok {
		return fmt.Errorf("httptool: unknown extension %q", name)
	}
	return reg.Register(name, ext, false)
}

// RegisterDefaults registers every built-in backend in default order, so
// "nethttp" becomes the implicit default.
func RegisterDefaults(reg *tool.Registry[Extension]) error {
	for _, name := range BuiltinNames() {
		if err := RegisterBuiltin(reg, name); err != nil {
			return err
		}
	}
	return nil
}

// Tool routes HTTP requests through a registry of interchangeable
// backends. The registry is injected, never package state, so callers
// and tests control exactly which backends exist.
type Tool struct {
	registry *tool.Registry[Extension]
}

// New creates an HTTP tool with all built-in backends registered.
func New() *Tool {
	reg := tool.NewRegistry[Extension]()
	// Built-in names cannot collide in a fresh registry.
	_ = RegisterDefaults(reg)
	return &Tool{registry: reg}
}

// NewWithRegistry creates an HTTP tool over an existing registry.
func NewWithRegistry(reg *tool.Registry[Extension]) *Tool {
	return &Tool{registry: reg}
}

// Name returns the directory name of the tool.
func (t *Tool) Name() string { return ToolName }

// Registry exposes the backend registry, for listing and configuration.
func (t *Tool) Registry() *tool.Registry[Extension] { return t.registry }

// Do validates req, resolves the backend, and executes the request. The
// returned Response is open; the caller must Close it. Exactly one
// invocation observation is emitted per call, including failed ones.
func (t *Tool) Do(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	observe := func(extension string, err error, kind string) {
		success := err == nil
		if !success && kind == "" {
			kind = "backend"
		}
		if success {
			kind = ""
		}
		tool.EmitInvokeObservation(tool.InvokeObservation{
			Tool:       ToolName,
			Extension:  extension,
			DurationMS: time.Since(start).Milliseconds(),
			Success:    success,
			ErrorKind:  kind,
		})
	}

	if req.Data != nil && req.JSON != nil {
		err := fmt.Errorf("httptool: request sets both data and json; provide at most one")
		observe(req.Extension, err, "validation")
		return nil, err
	}

	name := req.Extension
	req.Extension = ""
	ext, err := t.registry.Resolve(name)
	if err != nil {
		observe(name, err, "resolve")
		return nil, err
	}
	if name == "" {
		name, _ = t.registry.Default()
	}

	resp, err := ext(ctx, req)
	observe(name, err, "")
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Run is the directory entry point. It decodes the keyword-map arguments
// into a Request and returns the Response from Do.
func (t *Tool) Run(ctx context.Context, args map[string]any) (any, error) {
	req, err := requestFromArgs(args)
	if err != nil {
		return nil, err
	}
	return t.Do(ctx, req)
}

func requestFromArgs(args map[string]any) (Request, error) {
	var req Request

	url, ok, err := tool.ArgString(args, "url")
	if err != nil {
		return Request{}, err
	}
	if !ok || url == "" {
		return Request{}, fmt.Errorf("httptool: argument %q is required", "url")
	}
	req.URL = url

	if req.Method, _, err = tool.ArgString(args, "method"); err != nil {
		return Request{}, err
	}
	if req.Headers, _, err = tool.ArgStringMap(args, "headers"); err != nil {
		return Request{}, err
	}
	if req.Params, _, err = tool.ArgStringMap(args, "params"); err != nil {
		return Request{}, err
	}
	if req.Cookies, _, err = tool.ArgStringMap(args, "cookies"); err != nil {
		return Request{}, err
	}
	if req.Stream, _, err = tool.ArgBool(args, "stream"); err != nil {
		return Request{}, err
	}
	if req.Timeout, _, err = tool.ArgDuration(args, "timeout"); err != nil {
		return Request{}, err
	}
	if req.Extension, _, err = tool.ArgString(args, "extension"); err != nil {
		return Request{}, err
	}

	// Data and JSON pass through untyped; Do enforces their exclusivity
	// and the backend validates the shape.
	req.Data = args["data"]
	req.JSON = args["json"]

	return req, nil
}

var _ tool.Tool = (*Tool)(nil)
