// Package config loads the declarative startup capability table. The
// table controls which backend extensions each tool registers and in
// what order; the first listed extension becomes that tool's implicit
// default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "asynctoolkit.yaml"
	homeConfigDir     = ".asynctoolkit"
	homeConfigName    = "config.yaml"
)

// File is the full config shape of asynctoolkit.yaml.
type File struct {
	Tools   map[string]ToolConfig `yaml:"tools"`
	History HistoryConfig         `yaml:"history"`
	OTel    OTelConfig            `yaml:"otel"`
}

// ToolConfig declares the extensions of one tool. Order is significant:
// the first entry is the implicit default.
type ToolConfig struct {
	Extensions []string `yaml:"extensions"`
}

// HistoryConfig controls invocation history persistence.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// OTelConfig controls the OpenTelemetry observer and trace export.
type OTelConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Default returns the configuration used when no file is found: every
// tool probes and registers all of its built-in extensions, history is
// kept in the default store, telemetry stays off.
func Default() File {
	return File{History: HistoryConfig{Enabled: true}}
}

// Extensions returns the configured extension list for a tool, or nil
// when the tool has no entry (meaning: register everything built in).
func (f File) Extensions(toolName string) []string {
	decl, ok := f.Tools[toolName]
	if !ok {
		return nil
	}
	return decl.Extensions
}

// Discover resolves the config location with first-match semantics: an
// explicit path wins (and must exist), then ./asynctoolkit.yaml, then
// ~/.asynctoolkit/config.yaml. A false return with nil error means no
// config exists and defaults apply.
func Discover(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve user home: %w", err)
	}
	return DiscoverFrom(explicitPath, cwd, homeDir)
}

// DiscoverFrom is a testable variant of Discover.
func DiscoverFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		candidates = append(candidates, filepath.Clean(clean))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
	}

	for i, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			// An explicit path that does not exist is an error.
			if i == 0 && strings.TrimSpace(explicitPath) != "" {
				return "", false, fmt.Errorf("config: file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("config: checking path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads and validates one config file.
func Load(path string) (File, error) {
	// #nosec G304 -- path resolved from explicit local config discovery.
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: reading %q: %w", path, err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return File{}, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault discovers and loads the config, falling back to
// Default() when no file exists.
func LoadOrDefault(explicitPath string) (File, error) {
	path, found, err := Discover(explicitPath)
	if err != nil {
		return File{}, err
	}
	if !found {
		return Default(), nil
	}
	return Load(path)
}

// knownExtensions lists the valid extension names per tool. Registration
// itself probes availability; validation only rejects names that no
// build of the toolkit could ever serve.
var knownExtensions = map[string][]string{
	"http":             {"nethttp", "otelhttp"},
	"packageinstaller": {"pip", "uv"},
}

func (f File) validate() error {
	for toolName, decl := range f.Tools {
		known, ok := knownExtensions[toolName]
		if !ok {
			return fmt.Errorf("unknown tool %q", toolName)
		}
		for _, name := range decl.Extensions {
			if !containsString(known, name) {
				return fmt.Errorf("tool %q: unknown extension %q", toolName, name)
			}
		}
	}
	return nil
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

// HistoryPath resolves the history database location, expanding a
// leading ~ against the user home.
func (f File) HistoryPath() (string, error) {
	path := strings.TrimSpace(f.History.Path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve user home: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
