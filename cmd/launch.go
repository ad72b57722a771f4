package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pack-mod-manager/launch"
	"pack-mod-manager/logger"
)

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Write the launch artifacts for the configured game",
	Long: `Resolves the load order, writes the mod list script the game
reads at startup, and prints the argument vector for the external
patcher process.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runLaunch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().String("script", "", "Override path of the generated mod list script")
	launchCmd.Flags().Bool("logging", false, "Enable engine script logging")
	launchCmd.Flags().Bool("skip-intros", false, "Skip intro movies")
	launchCmd.Flags().Bool("dev-ui", false, "Enable developer-only UI")
	launchCmd.Flags().Bool("remove-trait-limit", false, "Remove the character trait limit")
	launchCmd.Flags().Bool("remove-siege-attacker", false, "Remove the siege attacker requirement")
	launchCmd.Flags().String("translation", "", "Language override for the translation tweak")
	launchCmd.Flags().String("universal-rebalancer", "", "Mod id to base the universal rebalancer on")
	launchCmd.Flags().Float64("unit-multiplier", 1, "Unit size multiplier")
}

func runLaunch(cmd *cobra.Command) {
	s := bootstrap(cmd)

	// Resolve against the current filesystem state before writing anything.
	s.order.Update(s.registry, s.game, s.game.DataPath(s.cfg.GamePath), s.cfg.ExtractedDir())

	builder := launch.NewBuilder(s.game, s.cfg.GamePath, s.cfg.SecondaryPathFor(s.game))
	directives := builder.Directives(s.registry, s.order)

	scriptPath, _ := cmd.Flags().GetString("script")
	if scriptPath == "" {
		scriptPath = filepath.Join(s.cfg.ConfigDir, fmt.Sprintf("mod_list_%s.txt", s.game.Key))
	}
	if err := builder.WriteScript(scriptPath, directives); err != nil {
		logger.Log.Fatalw("Failed to write launch script", zap.Error(err))
	}
	s.persist()

	opts := launchOptions(cmd)
	outputPath := filepath.Join(s.game.DataPath(s.cfg.GamePath), s.game.ReservedPackName())
	args := launch.BuildArgs(s.game, scriptPath, outputPath, opts)

	fmt.Printf("Wrote %d directives to %s\n", len(directives), scriptPath)
	fmt.Printf("Patcher arguments: %s\n", strings.Join(args, " "))
}

func launchOptions(cmd *cobra.Command) launch.Options {
	var opts launch.Options
	opts.EnableLogging, _ = cmd.Flags().GetBool("logging")
	opts.SkipIntros, _ = cmd.Flags().GetBool("skip-intros")
	opts.EnableDevUI, _ = cmd.Flags().GetBool("dev-ui")
	opts.RemoveTraitLimit, _ = cmd.Flags().GetBool("remove-trait-limit")
	opts.RemoveSiegeAttacker, _ = cmd.Flags().GetBool("remove-siege-attacker")
	opts.Translation, _ = cmd.Flags().GetString("translation")
	opts.UniversalRebalancer, _ = cmd.Flags().GetString("universal-rebalancer")
	opts.UnitMultiplier, _ = cmd.Flags().GetFloat64("unit-multiplier")
	return opts
}
