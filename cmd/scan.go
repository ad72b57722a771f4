package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pack-mod-manager/logger"
	"pack-mod-manager/store"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the game installation for mod packs",
	Long: `Walks the content, secondary and data folders of the configured
game, rebuilds the registry and load order, fetches remote metadata for
discovered workshop mods, and converts any pending legacy mods.`,
	Run: func(cmd *cobra.Command, _ []string) {
		noEnrich, _ := cmd.Flags().GetBool("no-enrich")
		runScan(cmd, noEnrich)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("no-enrich", false, "Skip fetching remote metadata")
}

func runScan(cmd *cobra.Command, noEnrich bool) {
	s := bootstrap(cmd)

	handle, err := s.scanner.Scan(s.registry, s.order, noEnrich || s.cfg.SkipEnrichment)
	if err != nil {
		logger.Log.Fatalw("Scan failed", zap.Error(err))
	}

	installed := 0
	for _, modd := range s.registry.Mods {
		if modd.Installed() {
			installed++
		}
	}
	fmt.Printf("Found %d installed mods (%d known in total)\n", installed, len(s.registry.Mods))

	// The scan itself never waits on the network; the command does, so the
	// user gets names and timestamps in the same run.
	if handle != nil {
		result := <-handle
		if result.Err != nil {
			logger.Log.Warnw("Enrichment failed, registry keeps prior metadata", zap.Error(result.Err))
		} else {
			store.Merge(s.registry, result.Items)
			s.scanner.ConvertPending(s.registry)
			s.refresh()
			fmt.Printf("Enriched %d mods with remote metadata\n", len(result.Items))
		}
	}

	if pending := s.scanner.PendingConversions(); len(pending) > 0 {
		fmt.Printf("%d legacy mods await conversion on the next scan\n", len(pending))
	}
}
