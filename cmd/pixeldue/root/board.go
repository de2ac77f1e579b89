package root

import (
	"context"

	"github.com/spf13/cobra"

	"pixeldue/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sess.ResumeTimers(ctx)
			sess.Welcome()
			return tui.RunBoard(ctx, sess, cmd.OutOrStdout())
		},
	}

	return cmd
}
