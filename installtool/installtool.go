package installtool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

// ToolName is the name the installer tool registers under in a tool
// directory.
const ToolName = "packageinstaller"

// Request describes one package installation.
type Request struct {
	// Package is the distribution name. Required.
	Package string

	// Version is a version or version constraint. A bare version like
	// "0.1.0" is pinned exactly; a value already starting with a
	// comparison operator (= < > !) passes through unchanged.
	Version string

	// Upgrade adds the backend's upgrade flag and triggers the module
	// reload hook after a successful install.
	Upgrade bool

	// Extension names the backend; empty selects the registry default.
	Extension string
}

// Result is the outcome of a successful installation.
type Result struct {
	Package string
	// Version is the constraint the backend actually received.
	Version string
	// Output is the installer's combined output.
	Output string
}

// Extension is one installer backend. It receives the request with the
// Version already normalized to a constraint and Extension stripped.
type Extension func(ctx context.Context, req Request) (Result, error)

// ReloadHook is called after a successful upgrade with the upgraded
// distribution's top-level module names. It is strictly best-effort: any
// error is logged at debug level and discarded.
type ReloadHook func(ctx context.Context, pkg string, modules []string) error

// Tool routes installation requests through a registry of installer
// backends.
type Tool struct {
	registry *tool.Registry[Extension]
	runner   commandRunner
	reload   ReloadHook
	logger   *slog.Logger
}

// New creates an installer tool with every available built-in backend
// registered.
func New() *Tool {
	reg := tool.NewRegistry[Extension]()
	// Probing cannot produce duplicate names in a fresh registry.
	_ = RegisterDefaults(reg)
	return NewWithRegistry(reg)
}

// NewWithRegistry creates an installer tool over an existing registry.
func NewWithRegistry(reg *tool.Registry[Extension]) *Tool {
	return &Tool{
		registry: reg,
		runner:   execRunner{},
		logger:   slog.Default(),
	}
}

// Name returns the directory name of the tool.
func (t *Tool) Name() string { return ToolName }

// Registry exposes the backend registry, for listing and configuration.
func (t *Tool) Registry() *tool.Registry[Extension] { return t.registry }

// SetReloadHook installs the post-upgrade reload hook. A nil hook
// disables module discovery entirely.
func (t *Tool) SetReloadHook(hook ReloadHook) { t.reload = hook }

// NormalizeVersion turns a bare version into an exact pin ("0.1.0" →
// "==0.1.0") and passes constraints that already start with a comparison
// operator through unchanged. Empty stays empty.
func NormalizeVersion(version string) string {
	if version == "" {
		return version
	}
	switch version[0] {
	case '=', '<', '>', '!':
		return version
	default:
		return "==" + version
	}
}

// Do validates req, resolves the backend, and performs the install.
// Exactly one invocation observation is emitted per call. A reload hook
// failure after a successful upgrade never turns the result into an
// error.
func (t *Tool) Do(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	observe := func(extension string, success bool, kind string) {
		tool.EmitInvokeObservation(tool.InvokeObservation{
			Tool:       ToolName,
			Extension:  extension,
			DurationMS: time.Since(start).Milliseconds(),
			Success:    success,
			ErrorKind:  kind,
		})
	}

	if strings.TrimSpace(req.Package) == "" {
		observe(req.Extension, false, "validation")
		return Result{}, fmt.Errorf("installtool: package name is required")
	}
	req.Version = NormalizeVersion(req.Version)

	name := req.Extension
	req.Extension = ""
	ext, err := t.registry.Resolve(name)
	if err != nil {
		observe(name, false, "resolve")
		return Result{}, err
	}
	if name == "" {
		name, _ = t.registry.Default()
	}

	result, err := ext(ctx, req)
	if err != nil {
		observe(name, false, "exec")
		return Result{}, err
	}
	observe(name, true, "")

	if req.Upgrade {
		t.reloadModules(ctx, req.Package)
	}
	return result, nil
}

// Run is the directory entry point. It decodes the keyword-map arguments
// into a Request and returns the Result from Do.
func (t *Tool) Run(ctx context.Context, args map[string]any) (any, error) {
	req, err := requestFromArgs(args)
	if err != nil {
		return nil, err
	}
	return t.Do(ctx, req)
}

func requestFromArgs(args map[string]any) (Request, error) {
	var req Request

	pkg, ok, err := tool.ArgString(args, "package")
	if err != nil {
		return Request{}, err
	}
	if !ok {
		// Dynamic callers historically used package_name.
		if pkg, ok, err = tool.ArgString(args, "package_name"); err != nil {
			return Request{}, err
		}
	}
	if !ok || pkg == "" {
		return Request{}, fmt.Errorf("installtool: argument %q is required", "package")
	}
	req.Package = pkg

	if req.Version, _, err = tool.ArgString(args, "version"); err != nil {
		return Request{}, err
	}
	if req.Upgrade, _, err = tool.ArgBool(args, "upgrade"); err != nil {
		return Request{}, err
	}
	if req.Extension, _, err = tool.ArgString(args, "extension"); err != nil {
		return Request{}, err
	}
	return req, nil
}

var _ tool.Tool = (*Tool)(nil)
