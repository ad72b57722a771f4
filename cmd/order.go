package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pack-mod-manager/loadorder"
	"pack-mod-manager/ui"
)

// orderCmd groups the load-order subcommands
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect and reorder the load order",
}

var orderShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current load order",
	Run: func(cmd *cobra.Command, _ []string) {
		s := bootstrap(cmd)

		mode := "manual"
		if s.order.Automatic {
			mode = "automatic"
		}
		fmt.Println(ui.Header(fmt.Sprintf("Load order (%s)", mode)))

		for i, id := range s.order.Mods {
			fmt.Printf("%3d  %s\n", i+1, id)
		}
		if len(s.order.Movies) > 0 {
			fmt.Println(ui.Header("Movies"))
			for _, id := range s.order.Movies {
				fmt.Printf("     %s\n", ui.Dim(id))
			}
		}
	},
}

var orderMoveCmd = &cobra.Command{
	Use:   "move <mod-id> <up|down>",
	Short: "Move a mod one position; switches the order to manual",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)

		var direction loadorder.Direction
		switch args[1] {
		case "up":
			direction = loadorder.Up
		case "down":
			direction = loadorder.Down
		default:
			fmt.Printf("Unknown direction %q, want up or down\n", args[1])
			return
		}

		s.order.MoveInDirection(args[0], direction)
		s.refresh()
		fmt.Printf("Moved %q %s\n", args[0], args[1])
	},
}

var orderMoveAboveCmd = &cobra.Command{
	Use:   "move-above <mod-id> <target-id>",
	Short: "Move a mod directly above another; switches the order to manual",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)
		s.order.MoveAbove(args[0], args[1])
		s.refresh()
		fmt.Printf("Moved %q above %q\n", args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)

	orderCmd.AddCommand(orderShowCmd)
	orderCmd.AddCommand(orderMoveCmd)
	orderCmd.AddCommand(orderMoveAboveCmd)
}
