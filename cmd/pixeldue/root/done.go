package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a quest",
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
			res, err := sess.CompleteQuest(ctx, id)
			if err != nil {
				return reportRefusal(cmd.OutOrStdout(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n",
				ui.Good.Render(ui.IconDone+" Completed"),
				res.Quest.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d XP)", res.Quest.XPReward)))
			if res.Quest.IsBounty {
				fmt.Fprintf(out, "%s %s\n", ui.Gold.Render(ui.IconBounty+" Bounty claimed"),
					ui.Muted.Render(fmt.Sprintf("(+%d credits)", res.Quest.BountyCreditReward)))
			}
			if res.Delta.LeveledUp {
				fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp,
					ui.Gold.Render(fmt.Sprintf("Level %d (+%d credits)", res.Delta.Level,
						res.Delta.CreditsGained+res.Delta.BonusCreditsGained)))
			}
			drainPal(out, sess, mark)
			return nil
		},
	}

	return cmd
}
