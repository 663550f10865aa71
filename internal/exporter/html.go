package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/marks/internal/model"
)

// FileName returns the export file name for the given day: bookmarks_YYYY-MM-DD.html
func FileName(now time.Time) string {
	return fmt.Sprintf("bookmarks_%s.html", now.Format("2006-01-02"))
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks_YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads", FileName(time.Now())), nil
}

// ExportHTML exports the store to Netscape bookmark HTML format.
// Each category becomes a folder, empty ones included. Uncategorized
// bookmarks are written at the top level after the folders.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	const prefix = "    "
	for _, category := range store.Categories {
		fmt.Fprintf(&b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(category.Name))
		fmt.Fprintf(&b, "%s<DL><p>\n", prefix)
		for _, bookmark := range store.CategoryBookmarks(category.ID) {
			writeBookmark(&b, prefix+prefix, bookmark)
		}
		fmt.Fprintf(&b, "%s</DL><p>\n", prefix)
	}

	for _, bookmark := range store.CategoryBookmarks("") {
		writeBookmark(&b, prefix, bookmark)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeBookmark writes one <DT><A> line. ADD_DATE and ICON are omitted when empty.
func writeBookmark(b *strings.Builder, prefix string, bookmark model.Bookmark) {
	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\"", prefix, html.EscapeString(bookmark.URL))
	if bookmark.AddDate != "" {
		fmt.Fprintf(b, " ADD_DATE=\"%s\"", html.EscapeString(bookmark.AddDate))
	}
	if bookmark.Icon != "" {
		fmt.Fprintf(b, " ICON=\"%s\"", html.EscapeString(bookmark.Icon))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(bookmark.Title))
}
