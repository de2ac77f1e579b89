package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newEditCmd() *cobra.Command {
	var title string
	var minutes int
	var due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a pending quest (re-values its XP)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			id, err := resolveQuestID(sess, args[0])
			if err != nil {
				return err
			}

			// Unset flags keep the quest's current values.
			var current *struct {
				title   string
				minutes int
				due     string
			}
			for _, q := range sess.Quests() {
				if q.ID == id {
					current = &struct {
						title   string
						minutes int
						due     string
					}{q.Title, q.DurationMinutes, q.DueDate}
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no quest with id %s", id)
			}
			if !cmd.Flags().Changed("title") {
				title = current.title
			}
			if !cmd.Flags().Changed("minutes") {
				minutes = current.minutes
			}
			if !cmd.Flags().Changed("due") {
				due = current.due
			}
			if clearDue {
				due = ""
			}

			mark := palMark(sess)
			if err := sess.EditQuest(ctx, id, title, minutes, due); err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconSparkle+" Quest updated"))
			drainPal(cmd.OutOrStdout(), sess, mark)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "New duration in minutes")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")

	return cmd
}
