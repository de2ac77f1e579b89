package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newCreditsCmd() *cobra.Command {
	var add int

	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Show (or grant) pal credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if add > 0 {
				mark := palMark(sess)
				if err := sess.AddCredits(ctx, add); err != nil {
					return reportRefusal(out, err)
				}
				drainPal(out, sess, mark)
			}
			fmt.Fprintln(out, ui.LabelValue("Credits", fmt.Sprintf("%d %s", sess.Profile().Credits, ui.IconCredit)))
			return nil
		},
	}

	cmd.Flags().IntVar(&add, "add", 0, "Grant extra credits")

	return cmd
}
