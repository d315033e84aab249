package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JulianKimmig/asynctoolkit/installtool"
)

// NewInstallCmd creates the "install" subcommand.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <package>",
		Short: "Install a Python package through the packageinstaller tool",
		Args:  cobra.ExactArgs(1),
		RunE:  runInstall,
	}

	cmd.Flags().String("version", "", "Version or version constraint (e.g. 0.1.0, >=0.2.0)")
	cmd.Flags().Bool("upgrade", false, "Upgrade the package if already installed")
	cmd.Flags().String("extension", "", "Backend extension: pip | uv (default: first registered)")
	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	pkg := strings.TrimSpace(args[0])
	if pkg == "" {
		return exitError(exitValidation, "package name is required")
	}

	version, _ := cmd.Flags().GetString("version")
	upgrade, _ := cmd.Flags().GetBool("upgrade")
	extension, _ := cmd.Flags().GetString("extension")

	kit, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := kit.Installer.Do(cmd.Context(), installtool.Request{
		Package:   pkg,
		Version:   version,
		Upgrade:   upgrade,
		Extension: extension,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exitError(exitTimeout, "install timed out: %v", err)
		}
		return exitError(exitRuntime, "%s", err)
	}

	printTo(cmd, "Installed %s%s\n", result.Package, result.Version)
	if output := strings.TrimSpace(result.Output); output != "" {
		printTo(cmd, "%s\n", output)
	}
	return nil
}
