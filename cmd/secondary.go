package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pack-mod-manager/ui"
)

// secondaryCmd represents the secondary copy command
var secondaryCmd = &cobra.Command{
	Use:   "secondary <mod-id>...",
	Short: "Copy mods into the shared secondary folder",
	Long: `Copies the packs behind the given mods into the secondary mods
folder so they survive workshop unsubscribes and game reinstalls.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)

		if !s.game.SupportsSecondaryFolder {
			fmt.Printf("%s does not support a secondary mods folder\n", s.game.DisplayName)
			return
		}
		if s.cfg.SecondaryModsPath == "" {
			fmt.Println("SECONDARY_MODS_PATH is not configured")
			return
		}

		failed := s.scanner.CopyToSecondary(s.registry, args)
		s.refresh()

		fmt.Printf("Copied %d of %d mods\n", len(args)-len(failed), len(args))
		for _, id := range failed {
			fmt.Println(ui.Warn("failed: " + id))
		}
	},
}

func init() {
	rootCmd.AddCommand(secondaryCmd)
}
