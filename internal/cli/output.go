package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/search"
)

var headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cell = lipgloss.NewStyle().Padding(0, 1)

// printTable renders rows with a normal border.
func (a *app) printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
	fmt.Fprintln(a.out, t.Render())
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// bookmarkView is the JSON shape of a listed bookmark.
type bookmarkView struct {
	model.Bookmark
	Category string `json:"category,omitempty"`
}

// printBookmarks lists bookmarks with their category names.
func (a *app) printBookmarks(results []search.Result) error {
	if a.flags.JSON {
		views := make([]bookmarkView, len(results))
		for i, r := range results {
			views[i] = bookmarkView{Bookmark: r.Bookmark, Category: r.Category}
		}
		return a.printJSON(views)
	}

	if len(results) == 0 {
		fmt.Fprintln(a.out, "No bookmarks.")
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Bookmark.ID, r.Bookmark.Title, r.Bookmark.URL, r.Category}
	}
	a.printTable([]string{"ID", "Title", "URL", "Category"}, rows)
	return nil
}

// printCategories lists categories with their counts.
func (a *app) printCategories(categories []model.Category) error {
	if a.flags.JSON {
		return a.printJSON(categories)
	}

	if len(categories) == 0 {
		fmt.Fprintln(a.out, "No categories.")
		return nil
	}

	rows := make([][]string, len(categories))
	for i, c := range categories {
		rows[i] = []string{c.ID, c.Name, fmt.Sprint(c.Count)}
	}
	a.printTable([]string{"ID", "Name", "Count"}, rows)
	return nil
}
