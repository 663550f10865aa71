package search

import (
	"strings"

	"github.com/nikbrunner/marks/internal/model"
	"github.com/sahilm/fuzzy"
)

// Result is a matched bookmark annotated with its category's display name.
type Result struct {
	Bookmark       model.Bookmark
	Category       string // "" when uncategorized
	MatchedIndexes []int  // fuzzy matches only
	Score          int    // fuzzy matches only
}

// Bookmarks returns bookmarks whose title or URL contains query, ignoring
// case, in storage order. An empty query matches nothing.
func Bookmarks(store *model.Store, query string) []Result {
	if query == "" {
		return []Result{}
	}

	lowerQuery := strings.ToLower(query)
	results := []Result{}
	for _, b := range store.Bookmarks {
		if strings.Contains(strings.ToLower(b.Title), lowerQuery) ||
			strings.Contains(strings.ToLower(b.URL), lowerQuery) {
			results = append(results, Result{
				Bookmark: b,
				Category: store.CategoryName(b.CategoryID),
			})
		}
	}
	return results
}

// bookmarkTitles implements fuzzy.Source for bookmark slice.
type bookmarkTitles []model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Fuzzy searches all bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(store *model.Store, query string) []Result {
	if query == "" {
		return nil
	}

	bookmarks := bookmarkTitles(store.Bookmarks)
	matches := fuzzy.FindFrom(query, bookmarks)

	results := make([]Result, len(matches))
	for i, m := range matches {
		b := bookmarks[m.Index]
		results[i] = Result{
			Bookmark:       b,
			Category:       store.CategoryName(b.CategoryID),
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
