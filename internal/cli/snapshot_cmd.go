package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/importer"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the whole tracker state",
	}

	cmd.AddCommand(
		newSnapshotExportCmd(app),
		newSnapshotImportCmd(app),
	)

	return cmd
}

// snapshotFormat resolves --format, falling back to the file extension.
func snapshotFormat(flag, path string) (importer.Format, error) {
	if flag != "" {
		return importer.ParseFormat(flag)
	}
	return importer.FormatFromPath(path), nil
}

func newSnapshotExportCmd(app *App) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the tracker state as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := snapshotFormat(format, output)
			if err != nil {
				return err
			}
			doc, err := app.Tracker.ExportDocument(cmd.Context())
			if err != nil {
				return err
			}
			data, err := importer.EncodeDocument(doc, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d sites and %d tasks to %s\n",
				len(doc.State.Sites), len(doc.State.Tasks), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the file extension)")

	return cmd
}

func newSnapshotImportCmd(app *App) *cobra.Command {
	var format string
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the tracker state with an exported snapshot",
		Long: `Replace the whole tracker state with the contents of FILE.

FILE may be a sitetrack export in JSON or YAML, or a raw browser-storage
state blob in JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := snapshotFormat(format, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			doc, err := importer.ParseDocument(data, f)
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				if err := wizardConfirm("Replace all current sites and tasks?", &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			result, err := app.Tracker.ImportDocument(cmd.Context(), doc)
			if err != nil && result == nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: ")+w)
			}
			msg := fmt.Sprintf("Imported %d sites, %d phases, %d sections, %d subsections and %d tasks.",
				result.Sites, result.Phases, result.Sections, result.Subsections, result.Tasks)
			return finish(cmd, err, msg)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the file extension)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
