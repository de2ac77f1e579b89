package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newSuggestCmd() *cobra.Command {
	var adopt int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask your pal for quest ideas (free)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ideas := sess.Suggest(ctx)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Quest ideas"))
			for i, idea := range ideas {
				fmt.Fprintf(out, "%s %s\n", ui.Key.Render(fmt.Sprintf("%d.", i+1)), idea)
			}

			if adopt == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Adopt one with --adopt <number>."))
				return nil
			}
			if adopt < 1 || adopt > len(ideas) {
				return fmt.Errorf("--adopt must be between 1 and %d", len(ideas))
			}

			mark := palMark(sess)
			q, err := sess.AdoptSuggestion(ctx, ideas[adopt-1])
			if err != nil {
				return reportRefusal(out, err)
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), q.Title,
				ui.Muted.Render(fmt.Sprintf("(#%s, %d XP)", shortID(q.ID), q.XPReward)))
			drainPal(out, sess, mark)
			return nil
		},
	}

	cmd.Flags().IntVar(&adopt, "adopt", 0, "Adopt suggestion by number")

	return cmd
}
