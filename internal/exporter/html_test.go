package exporter

import (
	"sort"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"

	"github.com/nikbrunner/marks/internal/importer"
	"github.com/nikbrunner/marks/internal/model"
)

func goldenStore() *model.Store {
	return &model.Store{
		Categories: []model.Category{
			{ID: "c1", Name: "Work", Count: 2},
			{ID: "c2", Name: "Empty", Count: 0},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "A", URL: "https://a.com", AddDate: "1700000000", CategoryID: "c1"},
			{ID: "b2", Title: "B", URL: "https://b.com", AddDate: "1700000001", Icon: "data:image/png;base64,AAA", CategoryID: "c1"},
			{ID: "b3", Title: "Loose", URL: "https://loose.com"},
		},
	}
}

func TestExportHTML_Golden(t *testing.T) {
	golden.Assert(t, ExportHTML(goldenStore()), "two_categories.golden")
}

func TestExportHTML_EmptyStore(t *testing.T) {
	html := ExportHTML(model.NewStore())

	// Should have basic structure even when empty
	assert.Assert(t, strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>"))
	assert.Assert(t, strings.Contains(html, "<TITLE>Bookmarks</TITLE>"))
	assert.Assert(t, strings.Contains(html, "<H1>Bookmarks</H1>"))
	assert.Assert(t, !strings.Contains(html, "<H3>"))
}

func TestExportHTML_EmptyCategoryStillRendered(t *testing.T) {
	store := model.NewStore()
	store.AddCategory(model.Category{ID: "c1", Name: "Nothing Yet"})

	html := ExportHTML(store)

	assert.Assert(t, strings.Contains(html, "<DT><H3>Nothing Yet</H3>"))
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	store := model.NewStore()
	store.AddCategory(model.Category{ID: "c1", Name: "R&D"})
	assert.NilError(t, store.AddBookmark(model.Bookmark{
		ID:         "b1",
		Title:      "Test <script>alert('xss')</script>",
		URL:        "https://example.com?foo=bar&baz=qux",
		CategoryID: "c1",
	}))

	html := ExportHTML(store)

	assert.Assert(t, !strings.Contains(html, "<script>"), "script tag should be escaped")
	assert.Assert(t, strings.Contains(html, "&lt;script&gt;"))
	assert.Assert(t, strings.Contains(html, "foo=bar&amp;baz"))
	assert.Assert(t, strings.Contains(html, "R&amp;D</H3>"))
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 7, 22, 15, 0, 0, time.UTC)
	assert.Equal(t, FileName(day), "bookmarks_2025-03-07.html")
}

// pairsByCategory maps category name to its sorted "title|url" pairs.
func pairsByCategory(categories []model.Category, bookmarks []model.Bookmark) map[string][]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	result := make(map[string][]string)
	for _, b := range bookmarks {
		name := names[b.CategoryID]
		result[name] = append(result[name], b.Title+"|"+b.URL)
	}
	for _, pairs := range result {
		sort.Strings(pairs)
	}
	return result
}

func TestExportHTML_RoundTrip(t *testing.T) {
	source := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Bookmarks Bar</H3>
    <DL><p>
        <DT><H3>Dev</H3>
        <DL><p>
            <DT><A HREF="https://go.dev" ADD_DATE="1700000000">Go</A>
            <DT><H3>Rust</H3>
            <DL><p>
                <DT><A HREF="https://rust-lang.org">Rust &amp; Cargo</A>
            </DL><p>
        </DL><p>
    </DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://a.com">A</A>
        <DT><A HREF="https://b.com?x=1&amp;y=2">B</A>
    </DL><p>
</DL><p>`

	categories, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(source))
	assert.NilError(t, err)

	store := model.NewStore()
	assert.NilError(t, store.Replace(categories, bookmarks))

	exported := ExportHTML(store)
	categories2, bookmarks2, err := importer.ParseHTMLBookmarks(strings.NewReader(exported))
	assert.NilError(t, err)

	assert.DeepEqual(t, pairsByCategory(categories2, bookmarks2), pairsByCategory(categories, bookmarks))
	assert.Equal(t, len(categories2), len(categories))

	// IDs are regenerated on import.
	assert.Assert(t, bookmarks2[0].ID != bookmarks[0].ID)
}
