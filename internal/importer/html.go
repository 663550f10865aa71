package importer

import (
	"io"
	"strings"

	"github.com/nikbrunner/marks/internal/model"
)

// barNames are heading texts that mark the browser's bookmarks bar.
var barNames = []string{"bookmarks bar", "书签栏"}

// IsBookmarksBar reports whether a folder heading names the bookmarks bar.
func IsBookmarksBar(name string) bool {
	lower := strings.ToLower(name)
	for _, bar := range barNames {
		if strings.Contains(lower, bar) {
			return true
		}
	}
	return false
}

// ParseHTMLBookmarks parses Netscape bookmark HTML into categories and bookmarks.
//
// Every folder heading except the bookmarks bar becomes a category holding
// all links beneath it, nested subfolders included. Folders that end up
// without links are dropped. IDs are freshly generated on every call.
func ParseHTMLBookmarks(r io.Reader) ([]model.Category, []model.Bookmark, error) {
	root, err := ParseTree(r)
	if err != nil {
		return nil, nil, err
	}

	categories := []model.Category{}
	bookmarks := []model.Bookmark{}

	root.Walk(func(f *Folder) {
		if IsBookmarksBar(f.Name) {
			return
		}

		category := model.NewCategory(f.Name)
		var entries []model.Bookmark
		for _, link := range f.AllLinks() {
			if link.Href == "" {
				continue
			}
			entries = append(entries, model.Bookmark{
				ID:         model.GenerateUUID(),
				Title:      link.Title,
				URL:        link.Href,
				AddDate:    link.AddDate,
				Icon:       link.Icon,
				CategoryID: category.ID,
			})
		}
		if len(entries) == 0 {
			return
		}

		category.Count = len(entries)
		categories = append(categories, category)
		bookmarks = append(bookmarks, entries...)
	})

	return categories, bookmarks, nil
}
