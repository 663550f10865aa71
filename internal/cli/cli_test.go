package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/marks/internal/picker"
)

const devExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3>Bookmarks Bar</H3>
    <DL><p>
        <DT><H3>Work</H3>
        <DL><p>
            <DT><A HREF="https://a.com" ADD_DATE="1700000000">A</A>
            <DT><A HREF="https://b.com" ADD_DATE="1700000001">B</A>
        </DL><p>
    </DL><p>
    <DT><H3>Code</H3>
    <DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
        <DT><A HREF="https://gitlab.com">GitLab</A>
    </DL><p>
</DL><p>`

// harness runs commands against an isolated config and data file.
type harness struct {
	dir    string
	opened []string
	copied []string
	pick   func(p picker.Picker) picker.Picker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{dir: t.TempDir()}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	a := newApp(&out, &errOut)
	a.openURL = func(url string) error {
		h.opened = append(h.opened, url)
		return nil
	}
	a.copyURL = func(url string) error {
		h.copied = append(h.copied, url)
		return nil
	}
	a.runPicker = func(p picker.Picker) (picker.Picker, error) {
		if h.pick != nil {
			return h.pick(p), nil
		}
		return p, nil
	}

	root := newRootCommand("1.2.3", a)
	root.SetArgs(append([]string{
		"--config", filepath.Join(h.dir, "config.json"),
		"--data", filepath.Join(h.dir, "bookmarks.json"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, "marks %s", strings.Join(args, " "))
	return out
}

func (h *harness) importFile(t *testing.T, html string) {
	t.Helper()
	path := filepath.Join(h.dir, "export.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))
	h.mustRun(t, "import", path)
}

type listedBookmark struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

type listedCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (h *harness) bookmarks(t *testing.T, args ...string) []listedBookmark {
	t.Helper()
	var result []listedBookmark
	out := h.mustRun(t, append([]string{"--json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	return result
}

func (h *harness) categories(t *testing.T) []listedCategory {
	t.Helper()
	var result []listedCategory
	out := h.mustRun(t, "--json", "category", "list")
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	return result
}

func TestVersionFlag(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "--version")
	assert.Contains(t, out, "1.2.3")
}

func TestImport(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(h.dir, "export.html")
	require.NoError(t, os.WriteFile(path, []byte(devExport), 0644))
	out := h.mustRun(t, "import", path)

	assert.Equal(t, "Imported 4 bookmarks, 2 categories\n", out)
	assert.Equal(t, "4\n", h.mustRun(t, "count"))

	categories := h.categories(t)
	require.Len(t, categories, 2)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, 2, categories[0].Count)
}

func TestImport_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "import", filepath.Join(h.dir, "missing.html"))
	assert.Error(t, err)

	h.importFile(t, devExport)

	bad := filepath.Join(h.dir, "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0644))
	_, err = h.run(t, "import", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a bookmark file")

	// Prior state survives the failed import.
	assert.Equal(t, "4\n", h.mustRun(t, "count"))
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	path := filepath.Join(h.dir, "out", "bookmarks.html")
	out := h.mustRun(t, "export", path)
	assert.Contains(t, out, "Exported 4 bookmarks, 2 categories")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<DT><H3>Work</H3>")
	assert.Contains(t, string(data), `HREF="https://a.com" ADD_DATE="1700000000"`)

	stdout := h.mustRun(t, "export", "-")
	assert.Equal(t, string(data), stdout)
}

func TestAdd(t *testing.T) {
	h := newHarness(t)

	h.mustRun(t, "add", "https://go.dev", "--title", "Go", "--category", "Languages")
	h.mustRun(t, "add", "https://later.com")

	categories := h.categories(t)
	require.Len(t, categories, 2)
	assert.Equal(t, "Languages", categories[0].Name)
	assert.Equal(t, 1, categories[0].Count)
	assert.Equal(t, "Read Later", categories[1].Name)

	// Existing category by ID.
	h.mustRun(t, "add", "https://pkg.go.dev", "-c", categories[0].ID)
	assert.Len(t, h.bookmarks(t, "list", "--category", "Languages"), 2)
}

func TestUpdate(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	target := h.bookmarks(t, "search", "a.com")[0]
	h.mustRun(t, "update", target.ID, "--title", "Alpha", "--category", "Code")

	updated := h.bookmarks(t, "search", "a.com")[0]
	assert.Equal(t, "Alpha", updated.Title)
	assert.Equal(t, "https://a.com", updated.URL)
	assert.Equal(t, "Code", updated.Category)

	counts := map[string]int{}
	for _, c := range h.categories(t) {
		counts[c.Name] = c.Count
	}
	assert.Equal(t, map[string]int{"Work": 1, "Code": 3}, counts)

	// Unknown IDs are ignored, unknown categories are not.
	h.mustRun(t, "update", "nope", "--title", "x")
	_, err := h.run(t, "update", target.ID, "--category", "Nowhere")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	target := h.bookmarks(t, "search", "gitlab")[0]
	out := h.mustRun(t, "delete", target.ID)
	assert.Contains(t, out, "Deleted https://gitlab.com")
	assert.Equal(t, "3\n", h.mustRun(t, "count"))

	_, err := h.run(t, "delete", target.ID)
	assert.Error(t, err)
}

func TestCategoryCommands(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	h.mustRun(t, "category", "add", "Empty", "One")
	categories := h.categories(t)
	require.Len(t, categories, 3)
	assert.Equal(t, "Empty One", categories[2].Name)
	assert.Equal(t, 0, categories[2].Count)

	out := h.mustRun(t, "category", "delete", "Work")
	assert.Contains(t, out, "Deleted category Work and 2 bookmarks")
	assert.Equal(t, "2\n", h.mustRun(t, "count"))

	table := h.mustRun(t, "category", "list")
	assert.Contains(t, table, "Code")
	assert.NotContains(t, table, "Work")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	_, err := h.run(t, "clear")
	assert.Error(t, err)
	assert.Equal(t, "4\n", h.mustRun(t, "count"))

	h.mustRun(t, "clear", "--force")
	assert.Equal(t, "0\n", h.mustRun(t, "count"))
	assert.Empty(t, h.categories(t))
	assert.Contains(t, h.mustRun(t, "list"), "No bookmarks.")
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	results := h.bookmarks(t, "search", "GITHUB")
	require.Len(t, results, 1)
	assert.Equal(t, "https://github.com", results[0].URL)
	assert.Equal(t, "Code", results[0].Category)

	table := h.mustRun(t, "search", "git")
	assert.Contains(t, table, "https://github.com")
	assert.Contains(t, table, "https://gitlab.com")
}

func TestFind_SingleResultOpens(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	out := h.mustRun(t, "find", "GitHub")
	assert.Contains(t, out, "Opening: GitHub")
	assert.Equal(t, []string{"https://github.com"}, h.opened)
}

func TestFind_CopyFlag(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	h.mustRun(t, "find", "GitHub", "--copy")
	assert.Equal(t, []string{"https://github.com"}, h.copied)
	assert.Empty(t, h.opened)
}

func TestFind_PickerCopy(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)
	h.pick = func(p picker.Picker) picker.Picker {
		m, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		return m.(picker.Picker)
	}

	h.mustRun(t, "find", "git")
	assert.Len(t, h.copied, 1)
	assert.Empty(t, h.opened)
}

func TestFind_PickerCancelled(t *testing.T) {
	h := newHarness(t)
	h.importFile(t, devExport)

	h.mustRun(t, "find", "git")
	assert.Empty(t, h.opened)
	assert.Empty(t, h.copied)

	out := h.mustRun(t, "find", "zzzz")
	assert.Contains(t, out, "No bookmarks found")
}

func TestCheck_Prune(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newHarness(t)
	h.mustRun(t, "add", srv.URL+"/ok", "-c", "Local")
	h.mustRun(t, "add", srv.URL+"/gone", "-c", "Local")

	out := h.mustRun(t, "check")
	assert.Contains(t, out, "1 dead, 0 unreachable")
	assert.Equal(t, "2\n", h.mustRun(t, "count"))

	out = h.mustRun(t, "check", "--prune", "--concurrency", "2")
	assert.Contains(t, out, "Deleted 1 dead bookmarks")
	assert.Equal(t, "1\n", h.mustRun(t, "count"))
	assert.Equal(t, 1, h.categories(t)[0].Count)
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	db := filepath.Join(h.dir, "marks.db")

	path := filepath.Join(h.dir, "export.html")
	require.NoError(t, os.WriteFile(path, []byte(devExport), 0644))
	h.mustRun(t, "--backend", "sqlite", "--data", db, "import", path)

	assert.Equal(t, "4\n", h.mustRun(t, "--backend", "sqlite", "--data", db, "count"))
	// The JSON store was not touched.
	assert.Equal(t, "0\n", h.mustRun(t, "count"))
}

func TestUnknownBackend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "--backend", "etcd", "count")
	assert.Error(t, err)
}
