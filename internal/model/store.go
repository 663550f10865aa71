package model

import (
	"errors"
	"fmt"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Store holds all bookmarks and categories.
// Every method keeps Category.Count equal to the number of bookmarks
// referencing that category.
type Store struct {
	Bookmarks  []Bookmark `json:"bookmarks"`
	Categories []Category `json:"categories"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Bookmarks:  []Bookmark{},
		Categories: []Category{},
	}
}

// Normalize replaces nil slices with empty ones and recomputes counts.
// Used after decoding state written by someone else.
func (s *Store) Normalize() {
	if s.Bookmarks == nil {
		s.Bookmarks = []Bookmark{}
	}
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	s.Recount()
}

// Recount recomputes every category count from the bookmark collection.
func (s *Store) Recount() {
	counts := make(map[string]int, len(s.Categories))
	for _, b := range s.Bookmarks {
		if b.CategoryID != "" {
			counts[b.CategoryID]++
		}
	}
	for i := range s.Categories {
		s.Categories[i].Count = counts[s.Categories[i].ID]
	}
}

// Replace discards the current contents and installs the given collections.
// Nothing changes if a bookmark references a category missing from categories.
func (s *Store) Replace(categories []Category, bookmarks []Bookmark) error {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	for _, b := range bookmarks {
		if b.CategoryID != "" && !known[b.CategoryID] {
			return fmt.Errorf("bookmark %s: %w", b.ID, ErrCategoryNotFound)
		}
	}

	s.Categories = append([]Category{}, categories...)
	s.Bookmarks = append([]Bookmark{}, bookmarks...)
	s.Recount()
	return nil
}

// Clear removes all bookmarks and categories.
func (s *Store) Clear() {
	s.Bookmarks = []Bookmark{}
	s.Categories = []Category{}
}

// AddCategory appends a category. Its count is derived from existing bookmarks.
func (s *Store) AddCategory(c Category) {
	c.Count = 0
	s.Categories = append(s.Categories, c)
}

// AddBookmark appends a bookmark and increments its category's count.
func (s *Store) AddBookmark(b Bookmark) error {
	var category *Category
	if b.CategoryID != "" {
		category = s.GetCategoryByID(b.CategoryID)
		if category == nil {
			return fmt.Errorf("category %s: %w", b.CategoryID, ErrCategoryNotFound)
		}
	}

	s.Bookmarks = append(s.Bookmarks, b)
	if category != nil {
		category.Count++
	}
	return nil
}

// UpdateBookmark merges u into the bookmark with the same ID.
// A category change moves one count from the old category to the new one.
func (s *Store) UpdateBookmark(u BookmarkUpdate) error {
	b := s.GetBookmarkByID(u.ID)
	if b == nil {
		return fmt.Errorf("bookmark %s: %w", u.ID, ErrBookmarkNotFound)
	}

	oldCategoryID := b.CategoryID
	if u.CategoryID != nil && *u.CategoryID != "" && s.GetCategoryByID(*u.CategoryID) == nil {
		return fmt.Errorf("category %s: %w", *u.CategoryID, ErrCategoryNotFound)
	}

	u.apply(b)

	if b.CategoryID != oldCategoryID {
		if old := s.GetCategoryByID(oldCategoryID); old != nil {
			old.Count--
		}
		if c := s.GetCategoryByID(b.CategoryID); c != nil {
			c.Count++
		}
	}
	return nil
}

// DeleteBookmark removes the bookmark with the given ID and decrements the
// count of the category it referenced. The removed bookmark is returned.
func (s *Store) DeleteBookmark(id string) (Bookmark, error) {
	idx := s.bookmarkIndex(id)
	if idx < 0 {
		return Bookmark{}, fmt.Errorf("bookmark %s: %w", id, ErrBookmarkNotFound)
	}

	removed := s.Bookmarks[idx]
	s.Bookmarks = append(s.Bookmarks[:idx], s.Bookmarks[idx+1:]...)

	if c := s.GetCategoryByID(removed.CategoryID); c != nil {
		c.Count--
	}
	return removed, nil
}

// DeleteCategory removes a category along with every bookmark filed under it.
// Returns the number of bookmarks removed.
func (s *Store) DeleteCategory(id string) (int, error) {
	idx := -1
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("category %s: %w", id, ErrCategoryNotFound)
	}

	s.Categories = append(s.Categories[:idx], s.Categories[idx+1:]...)

	kept := s.Bookmarks[:0]
	removed := 0
	for _, b := range s.Bookmarks {
		if b.CategoryID == id {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	s.Bookmarks = kept
	return removed, nil
}

// CategoryBookmarks returns bookmarks in the given category, in storage order.
func (s *Store) CategoryBookmarks(categoryID string) []Bookmark {
	result := []Bookmark{}
	for _, b := range s.Bookmarks {
		if b.CategoryID == categoryID {
			result = append(result, b)
		}
	}
	return result
}

// TotalBookmarks returns the number of distinct bookmark IDs.
func (s *Store) TotalBookmarks() int {
	seen := make(map[string]struct{}, len(s.Bookmarks))
	for _, b := range s.Bookmarks {
		seen[b.ID] = struct{}{}
	}
	return len(seen)
}

// CategoryName returns the display name of a category, or "" if unknown.
func (s *Store) CategoryName(id string) string {
	if c := s.GetCategoryByID(id); c != nil {
		return c.Name
	}
	return ""
}

// GetCategoryByID finds a category by ID, returns nil if not found.
func (s *Store) GetCategoryByID(id string) *Category {
	if id == "" {
		return nil
	}
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// GetCategoryByName finds the first category with the given name.
func (s *Store) GetCategoryByName(name string) *Category {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (s *Store) GetBookmarkByID(id string) *Bookmark {
	if idx := s.bookmarkIndex(id); idx >= 0 {
		return &s.Bookmarks[idx]
	}
	return nil
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	return &Store{
		Bookmarks:  append([]Bookmark{}, s.Bookmarks...),
		Categories: append([]Category{}, s.Categories...),
	}
}

func (s *Store) bookmarkIndex(id string) int {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}
