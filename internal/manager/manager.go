// Package manager is the bookmark store: it owns the in-memory state,
// applies actions to it, and flushes the whole state through a
// storage.Storage after every successful mutation.
//
// A Manager is not safe for concurrent use.
package manager

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/nikbrunner/marks/internal/exporter"
	"github.com/nikbrunner/marks/internal/importer"
	"github.com/nikbrunner/marks/internal/model"
	"github.com/nikbrunner/marks/internal/search"
	"github.com/nikbrunner/marks/internal/storage"
)

// Manager applies bookmark actions and persists the result.
type Manager struct {
	store   *model.Store
	storage storage.Storage
	log     *zap.Logger
}

// Params holds the collaborators of a Manager.
type Params struct {
	Storage storage.Storage
	Logger  *zap.Logger // nil disables logging
}

// New loads the persisted state and returns a Manager over it.
func New(params Params) (*Manager, error) {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}

	store, err := params.Storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	log.Debug("state loaded",
		zap.Int("bookmarks", len(store.Bookmarks)),
		zap.Int("categories", len(store.Categories)))

	return &Manager{store: store, storage: params.Storage, log: log}, nil
}

// persist writes the current state. The in-memory mutation is kept even if
// the write fails.
func (m *Manager) persist(action string) error {
	if err := m.storage.Save(m.store); err != nil {
		m.log.Error("save failed", zap.String("action", action), zap.Error(err))
		return fmt.Errorf("save after %s: %w", action, err)
	}
	return nil
}

// ImportStats summarizes an import.
type ImportStats struct {
	Categories int
	Bookmarks  int
}

// ImportHTML replaces all bookmarks and categories with those parsed from r.
// On a parse error nothing changes.
func (m *Manager) ImportHTML(r io.Reader) (ImportStats, error) {
	categories, bookmarks, err := importer.ParseHTMLBookmarks(r)
	if err != nil {
		if errors.Is(err, importer.ErrNotBookmarkFile) {
			m.log.Error("import aborted, keeping existing bookmarks", zap.Error(err))
		}
		return ImportStats{}, fmt.Errorf("import: %w", err)
	}

	if err := m.store.Replace(categories, bookmarks); err != nil {
		return ImportStats{}, fmt.Errorf("import: %w", err)
	}

	m.log.Info("bookmarks imported",
		zap.Int("categories", len(categories)),
		zap.Int("bookmarks", len(bookmarks)))

	stats := ImportStats{Categories: len(categories), Bookmarks: len(bookmarks)}
	return stats, m.persist("import")
}

// ExportHTML renders the current state as Netscape bookmark HTML.
func (m *Manager) ExportHTML() string {
	return exporter.ExportHTML(m.store)
}

// AddCategory creates an empty category.
func (m *Manager) AddCategory(name string) (model.Category, error) {
	category := model.NewCategory(name)
	m.store.AddCategory(category)
	m.log.Debug("category added", zap.String("id", category.ID), zap.String("name", category.Name))
	return category, m.persist("add category")
}

// EnsureCategory returns the category with the given name, creating it if needed.
func (m *Manager) EnsureCategory(name string) (model.Category, error) {
	if c := m.store.GetCategoryByName(model.CategoryName(name)); c != nil {
		return *c, nil
	}
	return m.AddCategory(name)
}

// AddBookmark creates a bookmark in the given category ("" for none).
func (m *Manager) AddBookmark(params model.NewBookmarkParams, categoryID string) (model.Bookmark, error) {
	bookmark := model.NewBookmark(params, categoryID)
	if err := m.store.AddBookmark(bookmark); err != nil {
		return model.Bookmark{}, err
	}
	m.log.Debug("bookmark added", zap.String("id", bookmark.ID), zap.String("url", bookmark.URL))
	return bookmark, m.persist("add bookmark")
}

// UpdateBookmark merges the supplied fields into an existing bookmark.
// An unknown bookmark ID is ignored.
func (m *Manager) UpdateBookmark(update model.BookmarkUpdate) error {
	err := m.store.UpdateBookmark(update)
	if errors.Is(err, model.ErrBookmarkNotFound) {
		m.log.Debug("update ignored", zap.String("id", update.ID))
		return nil
	}
	if err != nil {
		return err
	}
	return m.persist("update bookmark")
}

// DeleteBookmark removes a bookmark and decrements its category's count.
func (m *Manager) DeleteBookmark(id string) (model.Bookmark, error) {
	removed, err := m.store.DeleteBookmark(id)
	if err != nil {
		return model.Bookmark{}, err
	}
	m.log.Debug("bookmark deleted", zap.String("id", id))
	return removed, m.persist("delete bookmark")
}

// DeleteCategory removes a category and the bookmarks filed under it.
func (m *Manager) DeleteCategory(id string) (int, error) {
	removed, err := m.store.DeleteCategory(id)
	if err != nil {
		return 0, err
	}
	m.log.Debug("category deleted", zap.String("id", id), zap.Int("bookmarks", removed))
	return removed, m.persist("delete category")
}

// ClearAll removes every bookmark and category.
func (m *Manager) ClearAll() error {
	m.store.Clear()
	m.log.Info("all bookmarks cleared")
	return m.persist("clear")
}

// CategoryBookmarks returns the bookmarks filed under a category, in storage order.
func (m *Manager) CategoryBookmarks(categoryID string) []model.Bookmark {
	return m.store.CategoryBookmarks(categoryID)
}

// Search returns bookmarks whose title or URL contains query, ignoring case.
func (m *Manager) Search(query string) []search.Result {
	return search.Bookmarks(m.store, query)
}

// FuzzySearch ranks bookmarks by fuzzy title match.
func (m *Manager) FuzzySearch(query string) []search.Result {
	return search.Fuzzy(m.store, query)
}

// TotalBookmarks returns the number of distinct bookmarks.
func (m *Manager) TotalBookmarks() int {
	return m.store.TotalBookmarks()
}

// Categories returns a copy of the category collection.
func (m *Manager) Categories() []model.Category {
	return append([]model.Category{}, m.store.Categories...)
}

// Bookmarks returns a copy of the bookmark collection.
func (m *Manager) Bookmarks() []model.Bookmark {
	return append([]model.Bookmark{}, m.store.Bookmarks...)
}

// Bookmark looks up a bookmark by ID.
func (m *Manager) Bookmark(id string) (model.Bookmark, bool) {
	if b := m.store.GetBookmarkByID(id); b != nil {
		return *b, true
	}
	return model.Bookmark{}, false
}

// CategoryName returns a category's display name, or "" if unknown.
func (m *Manager) CategoryName(id string) string {
	return m.store.CategoryName(id)
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() *model.Store {
	return m.store.Clone()
}
