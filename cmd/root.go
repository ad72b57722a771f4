package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pack-mod-manager",
	Short: "Manage and launch pack mods for supported strategy titles",
	Long: `Scans the configured game installation for mod packs, keeps a
per-game registry and load order, and writes the launch artifacts the
game process reads at startup.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", ".", "Directory containing the .env configuration file")
}
