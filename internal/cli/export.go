package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/DavDaz/focus-title/internal/export"
	"github.com/DavDaz/focus-title/internal/models"
	"github.com/DavDaz/focus-title/internal/service"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		format string
		out    string
		group  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export active and archived tasks to CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "pdf" {
				return models.Validationf("export", "unknown format %q (use csv or pdf)", format)
			}
			groupBy, err := service.ParseGroupBy(group)
			if err != nil {
				return err
			}

			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.close()

			active, err := e.store.LoadActiveTasks()
			if err != nil {
				return err
			}
			archived, err := e.store.LoadArchived()
			if err != nil {
				return err
			}

			now := time.Now()
			path := out
			if path == "" {
				path = filepath.Join(e.cfg.ExportDir(), export.FileName(now, format))
			}

			switch format {
			case "csv":
				err = export.SaveCSV(path, active, archived)
			case "pdf":
				err = export.WritePDF(path, active, archived, groupBy, now)
			}
			if err != nil {
				return err
			}

			e.log.Infow("tasks exported", "path", path, "format", format,
				"active", len(active), "archived", len(archived))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d active and %d archived tasks to %s\n",
				len(active), len(archived), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default <export_folder>/focus_title_tasks_<timestamp>.<format>)")
	cmd.Flags().StringVar(&group, "group", "day", "Group archived tasks in the PDF by none, day or week")
	return cmd
}
