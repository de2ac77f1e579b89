package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newAddCmd() *cobra.Command {
	var minutes int
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			mark := palMark(sess)
			q, err := sess.CreateQuest(ctx, args[0], minutes, due)
			if err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}

			line := fmt.Sprintf("%s %s %s", ui.Good.Render(ui.IconPlus+" Added"), q.Title,
				ui.Muted.Render(fmt.Sprintf("(#%s, %dm, %d XP)", shortID(q.ID), q.DurationMinutes, q.XPReward)))
			fmt.Fprintln(cmd.OutOrStdout(), line)
			if q.DueDate != "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Due", q.DueDate))
			}
			drainPal(cmd.OutOrStdout(), sess, mark)
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 30, "Estimated duration in minutes")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")

	return cmd
}
