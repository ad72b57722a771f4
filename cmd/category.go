package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pack-mod-manager/logger"
)

// categoryCmd groups the category management subcommands
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage mod categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)
		if err := s.registry.CreateCategory(args[0]); err != nil {
			logger.Log.Fatalw("Failed to create category", zap.Error(err))
		}
		s.persist()
		fmt.Printf("Created category %q\n", args[0])
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a category, keeping its members and position",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)
		if err := s.registry.RenameCategory(args[0], args[1]); err != nil {
			logger.Log.Fatalw("Failed to rename category", zap.Error(err))
		}
		s.persist()
		fmt.Printf("Renamed category %q to %q\n", args[0], args[1])
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category, moving its members to Unassigned",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)
		if err := s.registry.DeleteCategory(args[0]); err != nil {
			logger.Log.Fatalw("Failed to delete category", zap.Error(err))
		}
		s.persist()
		fmt.Printf("Deleted category %q\n", args[0])
	},
}

var categoryAssignCmd = &cobra.Command{
	Use:   "assign <mod-id> <category>",
	Short: "Move a mod into a category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := bootstrap(cmd)
		if err := s.registry.AssignCategory(args[0], args[1]); err != nil {
			logger.Log.Fatalw("Failed to assign category", zap.Error(err))
		}
		s.persist()
		fmt.Printf("Assigned %q to %q\n", args[0], args[1])
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their member counts",
	Run: func(cmd *cobra.Command, _ []string) {
		s := bootstrap(cmd)
		for _, name := range s.registry.CategoriesOrder {
			fmt.Printf("%s (%d)\n", name, len(s.registry.Categories[name]))
		}
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)

	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryAssignCmd)
	categoryCmd.AddCommand(categoryListCmd)
}
