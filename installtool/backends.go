package installtool

import (
	"context"
	"fmt"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

// Built-in backend extension names.
const (
	ExtensionPip = "pip"
	ExtensionUV  = "uv"
)

// pipExtension installs through pip, preferring `python -m pip` so the
// install lands in the interpreter's environment, with a bare pip binary
// as fallback.
func pipExtension(runner commandRunner) Extension {
	return func(ctx context.Context, req Request) (Result, error) {
		specifier := req.Package + req.Version

		args := []string{"install", specifier}
		if req.Upgrade {
			args = append(args, "--upgrade")
		}

		var (
			output string
			err    error
		)
		if python, lookErr := lookPython(runner); lookErr == nil {
			output, err = runner.Run(ctx, python, append([]string{"-m", "pip"}, args...)...)
		} else {
			output, err = runner.Run(ctx, "pip", args...)
		}
		if err != nil {
			return Result{}, err
		}
		return Result{Package: req.Package, Version: req.Version, Output: output}, nil
	}
}

// uvExtension installs through the uv package manager.
func uvExtension(runner commandRunner) Extension {
	return func(ctx context.Context, req Request) (Result, error) {
		args := []string{"pip", "install"}
		if req.Upgrade {
			args = append(args, "--upgrade")
		}
		args = append(args, req.Package+req.Version)

		output, err := runner.Run(ctx, "uv", args...)
		if err != nil {
			return Result{}, err
		}
		return Result{Package: req.Package, Version: req.Version, Output: output}, nil
	}
}

func lookPython(runner commandRunner) (string, error) {
	if path, err := runner.LookPath("python3"); err == nil {
		return path, nil
	}
	return runner.LookPath("python")
}

func pipAvailable(runner commandRunner) bool {
	if _, err := lookPython(runner); err == nil {
		return true
	}
	_, err := runner.LookPath("pip")
	return err == nil
}

func uvAvailable(runner commandRunner) bool {
	_, err := runner.LookPath("uv")
	return err == nil
}

// BuiltinNames returns the built-in backend names in default
// registration order.
func BuiltinNames() []string {
	return []string{ExtensionPip, ExtensionUV}
}

// RegisterBuiltin registers one built-in backend by name if its installer
// binary exists on PATH. The boolean reports whether the backend was
// registered; an absent binary is not an error, only an unknown name is.
func RegisterBuiltin(reg *tool.Registry[Extension], name string) (bool, error) {
	return registerBuiltin(reg, name, execRunner{})
}

func registerBuiltin(reg *tool.Registry[Extension], name string, runner commandRunner) (bool, error) {
	switch name {
	case ExtensionPip:
		if !pipAvailable(runner) {
			return false, nil
		}
		return true, reg.Register(ExtensionPip, pipExtension(runner), false)
	case ExtensionUV:
		if !uvAvailable(runner) {
			return false, nil
		}
		return true, reg.Register(ExtensionUV, uvExtension(runner), false)
	default:
		return false, fmt.Errorf("installtool: unknown extension %q", name)
	}
}

// RegisterDefaults probes and registers every built-in backend in default
// order. A host with no installer leaves the registry empty, which
// surfaces as ErrNoExtensionAvailable at call time.
func RegisterDefaults(reg *tool.Registry[Extension]) error {
	return registerDefaults(reg, execRunner{})
}

func registerDefaults(reg *tool.Registry[Extension], runner commandRunner) error {
	for _, name := range BuiltinNames() {
		if _, err := registerBuiltin(reg, name, runner); err != nil {
			return err
		}
	}
	return nil
}
