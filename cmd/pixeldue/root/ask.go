package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pixeldue/internal/engine"
	"pixeldue/internal/ui"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask your pal a question (costs 1 credit)",
		Long: `Ask your pal a question. Each question costs one credit.

The credit is spent the moment you ask. If the pal's brain misfires you
get an apology instead of an answer, and no, there are no refunds.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("question is required")
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

			answer, err := sess.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Title.Render(ui.IconPal+" Pal says:"))
			fmt.Fprintln(out, answer)
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("(-%d credit, %d left)", engine.AskPalCost, sess.Profile().Credits)))
			return nil
		},
	}

	return cmd
}
