package root

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pixeldue/internal/storage"
	"pixeldue/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests by board section",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			b := sess.Board()
			out := cmd.OutOrStdout()

			printSection(out, ui.IconTimer, "Active", b.Active)
			printSection(out, ui.IconBounty, "Bounties", b.Bounties)
			printSection(out, ui.IconWarn, "Due Today", b.DueToday)
			printSection(out, ui.IconScroll, "Upcoming", b.Upcoming)
			printSection(out, ui.IconQuest, "Someday", b.Someday)
			if all {
				printSection(out, ui.IconDone, "Done", b.Done)
			}

			if len(b.Active)+len(b.Bounties)+len(b.DueToday)+len(b.Upcoming)+len(b.Someday) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No open quests. Add one with `pixeldue add`."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed quests")

	return cmd
}

func printSection(out io.Writer, icon string, name string, quests []storage.Quest) {
	if len(quests) == 0 {
		return
	}
	fmt.Fprintln(out, ui.H2.Render(icon+" "+name))
	for _, q := range quests {
		var tags []string
		tags = append(tags, fmt.Sprintf("%dm", q.DurationMinutes), fmt.Sprintf("%d XP", q.XPReward))
		if q.IsBounty {
			tags = append(tags, fmt.Sprintf("+%d credits", q.BountyCreditReward))
		}
		if q.DueDate != "" {
			tags = append(tags, "due "+q.DueDate)
		}
		if q.IsStarted && q.StartTime != nil {
			tags = append(tags, "since "+q.StartTime.Local().Format("15:04"))
		}
		fmt.Fprintf(out, "- %s %s %s %s\n",
			ui.Key.Render("#"+shortID(q.ID)),
			ui.QuestIcon(q.IsBounty, q.IsStarted),
			q.Title,
			ui.Muted.Render("("+strings.Join(tags, ", ")+")"))
	}
	fmt.Fprintln(out)
}
