package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a quest's focus timer",
		Long: `Start a quest's focus timer.

The quest stays marked as running in the database; open the board to
watch the countdown and let the timer complete it for you.`,
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

			mark := palMark(sess)
			if err := sess.StartQuest(ctx, id); err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconTimer+" Timer started"))
			drainPal(cmd.OutOrStdout(), sess, mark)
			return nil
		},
	}

	return cmd
}
