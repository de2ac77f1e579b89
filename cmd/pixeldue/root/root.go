package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pixeldue/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "pixeldue",
	Short:         "Pixel Due — gamified task tracker with a pixel companion",
	Long:          "Pixel Due is a local-first CLI/TUI to-do tracker where quests pay XP and credits, daily bounties appear, and a pixel pal comments on everything.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newStartCmd(),
		newStopCmd(),
		newDoneCmd(),
		newUndoCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newStatusCmd(),
		newBountiesCmd(),
		newAskCmd(),
		newSuggestCmd(),
		newCreditsCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
