package model

import (
	"strconv"
	"time"
)

// Bookmark represents a saved URL and the category it is filed under.
type Bookmark struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	AddDate    string `json:"addDate"` // opaque, usually Unix seconds; may be empty
	Icon       string `json:"icon,omitempty"`
	CategoryID string `json:"categoryId,omitempty"` // "" = uncategorized
}

// NewBookmarkParams holds the caller-supplied parts of a new Bookmark.
type NewBookmarkParams struct {
	Title string
	URL   string
	Icon  string
}

// NewBookmark creates a Bookmark with a generated ID and the current time as add date.
func NewBookmark(params NewBookmarkParams, categoryID string) Bookmark {
	return Bookmark{
		ID:         GenerateUUID(),
		Title:      params.Title,
		URL:        params.URL,
		AddDate:    strconv.FormatInt(time.Now().Unix(), 10),
		Icon:       params.Icon,
		CategoryID: categoryID,
	}
}

// BookmarkUpdate carries the fields to merge into an existing bookmark.
// Nil fields are left untouched.
type BookmarkUpdate struct {
	ID         string
	Title      *string
	URL        *string
	AddDate    *string
	Icon       *string
	CategoryID *string
}

// apply merges u into b.
func (u BookmarkUpdate) apply(b *Bookmark) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.URL != nil {
		b.URL = *u.URL
	}
	if u.AddDate != nil {
		b.AddDate = *u.AddDate
	}
	if u.Icon != nil {
		b.Icon = *u.Icon
	}
	if u.CategoryID != nil {
		b.CategoryID = *u.CategoryID
	}
}
