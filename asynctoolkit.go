// Package asynctoolkit provides a uniform tool abstraction over
// interchangeable backend implementations.
//
// Each tool (an HTTP client, a package installer) routes calls through a
// registry of named extensions; callers pick a backend per call or rely
// on the first-registered default. Subpackages hold the pieces:
//
//	import "github.com/JulianKimmig/asynctoolkit/tool"        // registry, directory, observers
//	import "github.com/JulianKimmig/asynctoolkit/httptool"    // HTTP tool + unified Response
//	import "github.com/JulianKimmig/asynctoolkit/installtool" // package installer
//	import "github.com/JulianKimmig/asynctoolkit/config"      // startup capability table
//
// This file wires the built-in tools together and re-exports the types
// most callers touch.
package asynctoolkit

import (
	"context"

	"github.com/JulianKimmig/asynctoolkit/config"
	"github.com/JulianKimmig/asynctoolkit/httptool"
	"github.com/JulianKimmig/asynctoolkit/installtool"
	"github.com/JulianKimmig/asynctoolkit/tool"
)

// Commonly used types, re-exported so simple callers need only this
// package.
type (
	// Response is the unified HTTP response contract.
	Response = httptool.Response

	// HTTPRequest describes one HTTP tool call.
	HTTPRequest = httptool.Request

	// InstallRequest describes one package installation.
	InstallRequest = installtool.Request

	// InstallResult is a successful installation outcome.
	InstallResult = installtool.Result
)

// Toolkit is the set of built-in tools wired into one directory.
type Toolkit struct {
	Directory *tool.Directory
	HTTP      *httptool.Tool
	Installer *installtool.Tool
}

// New builds the built-in tools into a fresh directory, applying the
// capability table from cfg. A nil cfg registers every available
// backend in built-in order. A tool listed in cfg registers only the
// named extensions, in the listed order, so the first entry becomes its
// default backend.
func New(cfg *config.File) (*Toolkit, error) {
	return build(tool.NewDirectory(), cfg)
}

// RegisterDefaults builds the built-in tools into the process-wide
// directory. See New for how cfg is applied.
func RegisterDefaults(cfg *config.File) (*Toolkit, error) {
	return build(tool.Global(), cfg)
}

func build(dir *tool.Directory, cfg *config.File) (*Toolkit, error) {
	resolved := config.Default()
	if cfg != nil {
		resolved = *cfg
	}

	httpReg := tool.NewRegistry[httptool.Extension]()
	httpNames := resolved.Extensions(httptool.ToolName)
	if httpNames == nil {
		httpNames = httptool.BuiltinNames()
	}
	for _, name := range httpNames {
		if err := httptool.RegisterBuiltin(httpReg, name); err != nil {
			return nil, err
		}
	}
	httpTool := httptool.NewWithRegistry(httpReg)

	installReg := tool.NewRegistry[installtool.Extension]()
	installNames := resolved.Extensions(installtool.ToolName)
	if installNames == nil {
		installNames = installtool.BuiltinNames()
	}
	for _, name := range installNames {
		// Absent installer binaries skip registration without error.
		if _, err := installtool.RegisterBuiltin(installReg, name); err != nil {
			return nil, err
		}
	}
	installTool := installtool.NewWithRegistry(installReg)

	if err := dir.Register(httpTool); err != nil {
		return nil, err
	}
	if err := dir.Register(installTool); err != nil {
		return nil, err
	}

	return &Toolkit{
		Directory: dir,
		HTTP:      httpTool,
		Installer: installTool,
	}, nil
}

// RunTool dispatches one call through the process-wide directory.
func RunTool(ctx context.Context, name string, args map[string]any) (any, error) {
	return tool.Global().Run(ctx, name, args)
}
