package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pack-mod-manager/mods"
	"pack-mod-manager/ui"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known mods grouped by category",
	Run: func(cmd *cobra.Command, _ []string) {
		installedOnly, _ := cmd.Flags().GetBool("installed")
		runList(cmd, installedOnly)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("installed", false, "Only show mods that are currently installed")
}

func runList(cmd *cobra.Command, installedOnly bool) {
	s := bootstrap(cmd)
	dataPath := s.game.DataPath(s.cfg.GamePath)

	for _, category := range s.registry.CategoriesOrder {
		members := s.registry.Categories[category]
		if len(members) == 0 && installedOnly {
			continue
		}

		fmt.Println(ui.Header(category))
		for _, id := range members {
			modd, ok := s.registry.Mods[id]
			if !ok {
				continue
			}
			if installedOnly && !modd.Installed() {
				continue
			}
			fmt.Println(renderModLine(modd, s, dataPath))
		}
	}

	orphaned := 0
	for _, modd := range s.registry.Mods {
		if !modd.Installed() {
			orphaned++
		}
	}
	if orphaned > 0 && !installedOnly {
		fmt.Println(ui.Dim(fmt.Sprintf("%d mods are known but not installed", orphaned)))
	}
}

func renderModLine(modd *mods.Mod, s *session, dataPath string) string {
	marker := ui.Disabled("[ ]")
	if modd.EnabledFor(s.game, dataPath) {
		marker = ui.Enabled("[x]")
	}

	name := modd.Name
	if name == "" {
		name = modd.ID
	}

	location := ""
	if modd.Installed() {
		location = ui.Dim(filepath.Dir(modd.Paths[0]))
	} else {
		location = ui.Dim("not installed")
	}

	kind := ""
	if modd.PackKind.String() != "mod" {
		kind = " (" + modd.PackKind.String() + ")"
	}

	return fmt.Sprintf("  %s %s%s  %s", marker, name, kind, location)
}
