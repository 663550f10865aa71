package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/manager"
)

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create an empty category",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withManager(func(m *manager.Manager) error {
					category, err := m.AddCategory(strings.Join(args, " "))
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Added category %s (%s)\n", category.Name, category.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List categories with bookmark counts",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withManager(func(m *manager.Manager) error {
					return a.printCategories(m.Categories())
				})
			},
		},
		&cobra.Command{
			Use:     "delete <id|name>",
			Aliases: []string{"rm"},
			Short:   "Delete a category and its bookmarks",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withManager(func(m *manager.Manager) error {
					target, err := resolveCategory(m, args[0])
					if err != nil {
						return err
					}
					removed, err := m.DeleteCategory(target.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Deleted category %s and %d bookmarks\n", target.Name, removed)
					return nil
				})
			},
		},
	)

	return cmd
}
