package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/marks/internal/manager"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/picker"
)

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find bookmarks whose title or URL contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withManager(func(m *manager.Manager) error {
				return a.printBookmarks(m.Search(query))
			})
		},
	}
}

func newFindCommand(a *app) *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search → select → open",
		Long: `Fuzzy search bookmark titles. A single match is used directly; several
matches open a picker (j/k to move, enter to open, y to copy, q to cancel).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withManager(func(m *manager.Manager) error {
				results := m.FuzzySearch(query)
				if len(results) == 0 {
					fmt.Fprintf(a.out, "No bookmarks found for '%s'\n", query)
					return nil
				}

				var selected model.Bookmark
				action := picker.ActionOpen
				if copyURL {
					action = picker.ActionCopy
				}

				if len(results) == 1 {
					selected = results[0].Bookmark
				} else {
					p, err := a.runPicker(picker.New(results, query))
					if err != nil {
						return fmt.Errorf("picker: %w", err)
					}
					bookmark, chosen, ok := p.Selected()
					if !ok {
						return nil
					}
					selected = bookmark
					if chosen == picker.ActionCopy {
						action = picker.ActionCopy
					}
				}

				if action == picker.ActionCopy {
					if err := a.copyURL(selected.URL); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Fprintf(a.out, "Copied: %s\n", selected.URL)
					return nil
				}

				fmt.Fprintf(a.out, "Opening: %s\n", selected.Title)
				return a.openURL(selected.URL)
			})
		},
	}

	cmd.Flags().BoolVar(&copyURL, "copy", false, "Copy the URL to the clipboard instead of opening it")
	return cmd
}
