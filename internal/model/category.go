package model

import (
	"fmt"
	"strings"
)

// GeneralCategory is the catch-all category every rules document must
// contain. Documents that cannot be classified land here.
const GeneralCategory = "General"

// Category describes one kind of document the user wants grouped
// together, plus the naming pattern applied to files placed in it.
type Category struct {
	// Name doubles as the folder name when organization is enabled.
	Name string `json:"name"`
	// Description is prose shown to the language model during
	// classification; richer descriptions classify better.
	Description string `json:"description"`
	// NamingPattern is a template such as "{date}_{company}.pdf" whose
	// {placeholder} fields are filled per document. May be empty, in
	// which case files keep their original name.
	NamingPattern string `json:"naming_pattern"`
}

// Validate checks that the category is well-formed enough to store.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	return nil
}

// DefaultCategories returns the catalogue seeded into a fresh rules
// document. The General category keeps files under their original name.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:          GeneralCategory,
			Description:   "Fallback for documents that do not match any other category",
			NamingPattern: "{original_name}",
		},
	}
}

// FindCategory looks up a category by exact name.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
