// Package cli implements the asynctoolkit command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JulianKimmig/asynctoolkit"
	"github.com/JulianKimmig/asynctoolkit/config"
	toolkitotel "github.com/JulianKimmig/asynctoolkit/otel"
	"github.com/JulianKimmig/asynctoolkit/tool"
	"go.opentelemetry.io/otel"
)

// NewRootCmd assembles the full command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "asynctoolkit",
		Short:        "Uniform tools over interchangeable backends",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to config file (default: ./asynctoolkit.yaml, ~/.asynctoolkit/config.yaml)")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(NewHTTPCmd())
	root.AddCommand(NewInstallCmd())
	root.AddCommand(NewToolsCmd())
	return root
}

// setup loads configuration, builds the toolkit, and wires observers.
// The returned cleanup flushes history and telemetry and must run before
// the process exits.
func setup(cmd *cobra.Command) (*asynctoolkit.Toolkit, func(), error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, exitError(exitValidation, "%s", err)
	}

	kit, err := asynctoolkit.New(&cfg)
	if err != nil {
		return nil, nil, exitError(exitValidation, "%s", err)
	}

	var observers tool.CompositeObserver
	var cleanups []func()

	if cfg.History.Enabled {
		store, err := openHistoryStore(cfg)
		if err != nil {
			slog.Warn("invocation history unavailable", "error", err)
		} else {
			observers = append(observers, tool.NewRecorder(store, nil))
			cleanups = append(cleanups, func() { _ = store.Close() })
		}
	}

	if cfg.OTel.Enabled {
		shutdown, err := toolkitotel.InitTracing(cmd.Context(), cfg.OTel.Endpoint)
		if err != nil {
			return nil, nil, exitError(exitRuntime, "initializing telemetry: %v", err)
		}
		cleanups = append(cleanups, func() { _ = shutdown(cmd.Context()) })

		observer, err := toolkitotel.NewToolObserver(
			otel.GetMeterProvider().Meter("asynctoolkit"),
			otel.GetTracerProvider().Tracer("asynctoolkit"),
		)
		if err != nil {
			return nil, nil, exitError(exitRuntime, "initializing telemetry: %v", err)
		}
		observers = append(observers, observer)
	}

	if len(observers) > 0 {
		tool.SetObserver(observers)
	}

	cleanup := func() {
		tool.SetObserver(nil)
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return kit, cleanup, nil
}

func openHistoryStore(cfg config.File) (tool.Store, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = tool.DefaultSQLitePath(); err != nil {
			return nil, err
		}
	}
	return tool.NewSQLiteStore(path)
}

func resolveHistoryStorePath(cmd *cobra.Command) (string, error) {
	if explicit, _ := cmd.Flags().GetString("store-path"); explicit != "" {
		return explicit, nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return "", err
	}
	if path, err := cfg.HistoryPath(); err != nil || path != "" {
		return path, err
	}
	return tool.DefaultSQLitePath()
}

func printTo(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
