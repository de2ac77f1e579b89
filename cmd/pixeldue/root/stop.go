package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a running quest without completing it",
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
			if err := sess.CancelQuest(ctx, id); err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconTimer+" Timer stopped, quest back to pending"))
			drainPal(cmd.OutOrStdout(), sess, mark)
			return nil
		},
	}

	return cmd
}
