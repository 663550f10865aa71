package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/manager"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/search"
)

// resolveCategory finds a category by ID or, failing that, by name.
func resolveCategory(m *manager.Manager, ref string) (model.Category, error) {
	for _, c := range m.Categories() {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range m.Categories() {
		if c.Name == ref {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("category %q: %w", ref, model.ErrCategoryNotFound)
}

func newAddCommand(a *app) *cobra.Command {
	var title, icon, category string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark",
		Long: `Add a bookmark to a category.

--category accepts a category ID or name; an unknown name is created.
Without --category the quick-add category from the config is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				ref := category
				if ref == "" {
					ref = a.config.QuickAddCategory
				}

				target, err := resolveCategory(m, ref)
				if errors.Is(err, model.ErrCategoryNotFound) {
					target, err = m.EnsureCategory(ref)
				}
				if err != nil {
					return err
				}

				bookmark, err := m.AddBookmark(model.NewBookmarkParams{
					Title: title,
					URL:   args[0],
					Icon:  icon,
				}, target.ID)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "Added %s to %s (%s)\n", bookmark.URL, target.Name, bookmark.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Bookmark title")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon (usually a data: URI)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category ID or name")
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var title, url, icon, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a bookmark",
		Long: `Change the given fields of a bookmark; fields without a flag are kept.

An unknown bookmark ID is ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				update := model.BookmarkUpdate{ID: args[0]}
				flags := cmd.Flags()
				if flags.Changed("title") {
					update.Title = &title
				}
				if flags.Changed("url") {
					update.URL = &url
				}
				if flags.Changed("icon") {
					update.Icon = &icon
				}
				if flags.Changed("category") {
					categoryID := ""
					if category != "" {
						target, err := resolveCategory(m, category)
						if err != nil {
							return err
						}
						categoryID = target.ID
					}
					update.CategoryID = &categoryID
				}

				if _, ok := m.Bookmark(args[0]); !ok {
					a.log.Warn("no bookmark with this id, nothing updated")
				}
				return m.UpdateBookmark(update)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&url, "url", "", "New URL")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon")
	cmd.Flags().StringVarP(&category, "category", "c", "", `New category ID or name ("" for none)`)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				removed, err := m.DeleteBookmark(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s\n", removed.URL)
				return nil
			})
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all bookmarks and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to delete everything without --force")
			}
			return a.withManager(func(m *manager.Manager) error {
				total := m.TotalBookmarks()
				if err := m.ClearAll(); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %d bookmarks\n", total)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deleting everything")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				bookmarks := m.Bookmarks()
				if category != "" {
					target, err := resolveCategory(m, category)
					if err != nil {
						return err
					}
					bookmarks = m.CategoryBookmarks(target.ID)
				}

				results := make([]search.Result, len(bookmarks))
				for i, b := range bookmarks {
					results[i] = search.Result{Bookmark: b, Category: m.CategoryName(b.CategoryID)}
				}
				return a.printBookmarks(results)
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only bookmarks in this category (ID or name)")
	return cmd
}

func newCountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(func(m *manager.Manager) error {
				if a.flags.JSON {
					return a.printJSON(map[string]int{
						"bookmarks":  m.TotalBookmarks(),
						"categories": len(m.Categories()),
					})
				}
				fmt.Fprintln(a.out, m.TotalBookmarks())
				return nil
			})
		},
	}
}
