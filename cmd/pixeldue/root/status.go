package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pixeldue/internal/engine"
	"pixeldue/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show hero stats, credits and cosmetics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := sess.Profile()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Hero Status"))
			fmt.Fprintln(out, ui.LabelValue("Name", p.DisplayName))
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			if p.Level < engine.MaxLevel() {
				next := engine.ThresholdForLevel(p.Level + 1)
				fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (next level at %d, %d to go)", p.XP, next, next-p.XP)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (max level)", p.XP)))
			}
			fmt.Fprintln(out, ui.LabelValue("Credits", fmt.Sprintf("%d %s", p.Credits, ui.IconCredit)))
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.H2.Render(ui.IconPal+" Pal"))
			fmt.Fprintln(out, ui.LabelValue("Color", p.PalColorID))
			fmt.Fprintln(out, ui.LabelValue("Hat", p.EquippedHat))
			fmt.Fprintln(out, ui.LabelValue("Accessory", p.EquippedAccessory))
			fmt.Fprintf(out, "%s sarcasm %d, helpfulness %d, chattiness %d\n",
				ui.Key.Render("Persona:"), p.Sarcasm, p.Helpfulness, p.Chattiness)
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Unlocked cosmetics"))
			if len(p.UnlockedCosmetics) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("- none yet"))
			}
			for _, id := range p.UnlockedCosmetics {
				fmt.Fprintf(out, "- %s\n", ui.Muted.Render(id))
			}
			fmt.Fprintln(out)

			b := sess.Board()
			fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Quests"))
			fmt.Fprintln(out, ui.LabelValue("Active", len(b.Active)))
			fmt.Fprintln(out, ui.LabelValue("Open bounties", len(b.Bounties)))
			fmt.Fprintln(out, ui.LabelValue("Due today", len(b.DueToday)))
			fmt.Fprintln(out, ui.LabelValue("Completed", len(b.Done)))
			if p.LastBountiesGeneratedDate != "" {
				fmt.Fprintln(out, ui.LabelValue("Bounties refreshed", p.LastBountiesGeneratedDate))
			}
			return nil
		},
	}

	return cmd
}
