package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/DavDaz/focus-title/internal/models"
)

func newTrashCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect, restore or purge deleted tasks",
	}
	cmd.AddCommand(newTrashListCmd(flags))
	cmd.AddCommand(newTrashRestoreCmd(flags))
	cmd.AddCommand(newTrashPurgeCmd(flags))
	return cmd
}

func newTrashListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deleted tasks, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.close()

			archived, err := e.store.LoadArchived()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(archived) == 0 {
				fmt.Fprintln(w, "Trash is empty")
				return nil
			}
			fmt.Fprintf(w, "%-6s %-19s %9s  %s\n", "ID", "DELETED", "TIME", "TITLE")
			for _, a := range archived {
				fmt.Fprintf(w, "%-6d %-19s %9s  %s\n",
					a.ID, a.DeletedAt.Local().Format("2006-01-02 15:04:05"),
					models.FormatElapsed(a.ElapsedSeconds), a.Title)
			}
			return nil
		},
	}
}

func newTrashRestoreCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Move a deleted task back to the end of the task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return models.Validationf("restore", "invalid id %q", args[0])
			}

			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.close()

			t, ok, err := e.store.RestoreArchived(models.ArchivedTask{ID: id})
			if err != nil {
				return err
			}
			if !ok {
				return &models.Error{Kind: models.ErrNotFound, Op: "restore", Msg: fmt.Sprintf("no deleted task with id %d", id)}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %q (%s)\n", t.Title, models.FormatElapsed(t.Elapsed()))
			return nil
		},
	}
}

func newTrashPurgeCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete everything in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return models.Validationf("purge", "refusing to purge without --yes")
			}
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.PurgeArchived(); err != nil {
				return err
			}
			e.log.Info("archive purged from command line")
			fmt.Fprintln(cmd.OutOrStdout(), "Trash purged")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the purge")
	return cmd
}
