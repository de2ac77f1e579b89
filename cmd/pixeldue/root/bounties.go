package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newBountiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounties",
		Short: "Show today's bounties",
		Long: `Show today's bounties.

A fresh batch is generated the first time Pixel Due runs each day.
Completing a bounty pays XP plus a credit reward.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			b := sess.Board()
			out := cmd.OutOrStdout()

			if len(b.Bounties) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No open bounties. Either all claimed or they're running in Active."))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBounty, "Today's Bounties"))
			for _, q := range b.Bounties {
				fmt.Fprintf(out, "- %s %s %s\n",
					ui.Key.Render("#"+shortID(q.ID)),
					q.Title,
					ui.Muted.Render(fmt.Sprintf("(%dm, %d XP, +%d credits)", q.DurationMinutes, q.XPReward, q.BountyCreditReward)))
			}
			return nil
		},
	}

	return cmd
}
