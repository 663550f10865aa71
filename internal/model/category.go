package model

import "strings"

// DefaultCategoryName is used when a category has no usable name.
const DefaultCategoryName = "Uncategorized"

// Category groups bookmarks. Count mirrors the number of bookmarks
// referencing the category and is maintained by Store.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewCategory creates an empty Category with a generated ID.
func NewCategory(name string) Category {
	return Category{
		ID:    GenerateUUID(),
		Name:  CategoryName(name),
		Count: 0,
	}
}

// CategoryName trims name and falls back to DefaultCategoryName.
func CategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultCategoryName
	}
	return name
}
