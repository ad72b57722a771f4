package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pack-mod-manager/logger"
)

// enableCmd represents the enable command
var enableCmd = &cobra.Command{
	Use:   "enable <mod-id>...",
	Short: "Enable one or more mods",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runToggle(cmd, args, true)
	},
}

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:   "disable <mod-id>...",
	Short: "Disable one or more mods",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runToggle(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runToggle(cmd *cobra.Command, ids []string, enable bool) {
	s := bootstrap(cmd)
	dataPath := s.game.DataPath(s.cfg.GamePath)

	changed := 0
	for _, id := range ids {
		modd, ok := s.registry.Mods[id]
		if !ok {
			logger.Log.Warnw("Unknown mod", "id", id)
			continue
		}
		if !modd.CanBeToggled(s.game, dataPath) {
			logger.Log.Warnw("Mod cannot be toggled on this title", "id", id)
			continue
		}
		if modd.Enabled != enable {
			modd.Enabled = enable
			changed++
		}
	}

	if changed == 0 {
		fmt.Println("Nothing changed")
		return
	}

	s.refresh()
	if enable {
		fmt.Printf("Enabled %d mods\n", changed)
	} else {
		fmt.Printf("Disabled %d mods\n", changed)
	}
}
