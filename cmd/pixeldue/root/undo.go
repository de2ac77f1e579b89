package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <id>",
		Short: "Reopen a completed quest",
		Long: `Reopen a completed quest.

The quest returns to pending. XP and credits already earned are kept;
progression never runs backwards.`,
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
			if err := sess.UncompleteQuest(ctx, id); err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconScroll+" Quest reopened"))
			drainPal(cmd.OutOrStdout(), sess, mark)
			return nil
		},
	}

	return cmd
}
