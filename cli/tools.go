package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

// NewToolsCmd creates the "tools" command group.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect tools and invocation history",
	}
	cmd.PersistentFlags().String("store-path", "", "Path to SQLite history store (default: ~/.asynctoolkit/asynctoolkit.db)")

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsHistoryCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools and their registered extensions",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
}

func runToolsList(cmd *cobra.Command, args []string) error {
	kit, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	type toolRow struct {
		name       string
		extensions []string
		defaultExt string
	}

	rows := []toolRow{}
	if def, ok := kit.HTTP.Registry().Default(); ok {
		rows = append(rows, toolRow{kit.HTTP.Name(), kit.HTTP.Registry().Names(), def})
	} else {
		rows = append(rows, toolRow{name: kit.HTTP.Name()})
	}
	if def, ok := kit.Installer.Registry().Default(); ok {
		rows = append(rows, toolRow{kit.Installer.Name(), kit.Installer.Registry().Names(), def})
	} else {
		rows = append(rows, toolRow{name: kit.Installer.Name()})
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "TOOL\tEXTENSIONS\tDEFAULT")
	for _, row := range rows {
		extensions := strings.Join(row.extensions, ",")
		if extensions == "" {
			extensions = "-"
		}
		defaultExt := row.defaultExt
		if defaultExt == "" {
			defaultExt = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", row.name, extensions, defaultExt)
	}
	return writer.Flush()
}

func newToolsHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tool invocations",
		Args:  cobra.NoArgs,
		RunE:  runToolsHistory,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of records (0 for all)")
	return cmd
}

func runToolsHistory(cmd *cobra.Command, args []string) error {
	storePath, err := resolveHistoryStorePath(cmd)
	if err != nil {
		return exitError(exitValidation, "%s", err)
	}

	store, err := tool.NewSQLiteStore(storePath)
	if err != nil {
		return exitError(exitRuntime, "opening history store: %v", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.List(cmd.Context(), limit)
	if err != nil {
		return exitError(exitRuntime, "reading history: %v", err)
	}

	if len(records) == 0 {
		printTo(cmd, "No invocations recorded.\n")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "TIME\tTOOL\tEXTENSION\tDURATION_MS\tSTATUS\tERROR")
	for _, record := range records {
		status := "ok"
		if !record.Success {
			status = "failed"
		}
		errorKind := record.Error
		if errorKind == "" {
			errorKind = "-"
		}
		fmt.Fprintf(writer,
			"%s\t%s\t%s\t%d\t%s\t%s\n",
			record.StartedAt.Format("2006-01-02 15:04:05"),
			record.Tool,
			record.Extension,
			record.DurationMS,
			status,
			errorKind,
		)
	}
	return writer.Flush()
}
