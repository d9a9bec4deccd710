// Package rules manages the user's rules document: the watched folder,
// the category catalogue, and the variable catalogue, persisted as a
// single JSON file the user may also edit by hand.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parafile/parafile/internal/common"
	"github.com/parafile/parafile/internal/model"
	"github.com/parafile/parafile/internal/pattern"
)

// Document is the full rules document.
type Document struct {
	// WatchedFolder is the directory monitored for new documents.
	WatchedFolder string `json:"watched_folder"`
	// EnableOrganization moves documents into per-category subfolders
	// when true; when false they are renamed in place.
	EnableOrganization bool `json:"enable_organization"`
	// Categories always contains the General category.
	Categories []model.Category `json:"categories"`
	// Variables always contains the original_name variable.
	Variables []model.Variable `json:"variables"`
}

// Default returns a fresh rules document with the built-in catalogues
// and no watched folder configured.
func Default() *Document {
	return &Document{
		Categories: model.DefaultCategories(),
		Variables:  model.DefaultVariables(),
	}
}

// Load reads the rules document at path. A missing file is replaced
// with defaults; an unreadable or malformed file is reset to defaults
// with a warning rather than aborting. Documents missing the built-in
// entries are repaired and written back.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc := Default()
		if saveErr := Save(path, doc); saveErr != nil {
			return nil, fmt.Errorf("failed to create default rules: %w", saveErr)
		}
		slog.Info("created default rules document", "path", path)
		return doc, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("rules document is malformed, resetting to defaults",
			"path", path,
			"error", err)
		fresh := Default()
		if saveErr := Save(path, fresh); saveErr != nil {
			return nil, fmt.Errorf("failed to reset rules: %w", saveErr)
		}
		return fresh, nil
	}

	if doc.repair() {
		slog.Info("restored built-in rules entries", "path", path)
		if err := Save(path, &doc); err != nil {
			return nil, fmt.Errorf("failed to save repaired rules: %w", err)
		}
	}

	doc.warnUndeclared()

	return &doc, nil
}

// warnUndeclared logs naming-pattern placeholders that have no variable
// catalogue entry. They still work, but the model only sees the bare
// name, so extraction quality suffers.
func (d *Document) warnUndeclared() {
	for _, c := range d.Categories {
		for _, name := range pattern.Parse(c.NamingPattern) {
			if _, ok := model.FindVariable(d.Variables, name); !ok {
				slog.Warn("naming pattern references an undeclared variable",
					"category", c.Name,
					"variable", name)
			}
		}
	}
}

// Save writes the rules document atomically: the JSON is written to a
// temporary file in the same directory and renamed over the target, so
// a crash never leaves a half-written document behind.
func Save(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".rules-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp rules file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write rules: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close rules file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace rules file: %w", err)
	}
	return nil
}

// repair reinstates the built-in General category and original_name
// variable if a hand-edited document lost them. It returns true when
// anything changed.
func (d *Document) repair() bool {
	changed := false
	if _, ok := model.FindCategory(d.Categories, model.GeneralCategory); !ok {
		d.Categories = append(model.DefaultCategories(), d.Categories...)
		changed = true
	}
	if _, ok := model.FindVariable(d.Variables, model.OriginalNameVariable); !ok {
		d.Variables = append(model.DefaultVariables(), d.Variables...)
		changed = true
	}
	return changed
}

// AddCategory appends a category, rejecting duplicates by name.
func (d *Document) AddCategory(c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, ok := model.FindCategory(d.Categories, c.Name); ok {
		return fmt.Errorf("category %q: %w", c.Name, common.ErrDuplicateEntry)
	}
	d.Categories = append(d.Categories, c)
	return nil
}

// UpdateCategory replaces the description and naming pattern of the
// named category. The General category can be updated but not renamed.
func (d *Document) UpdateCategory(name string, c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if name == model.GeneralCategory && c.Name != model.GeneralCategory {
		return fmt.Errorf("category %q: %w", name, common.ErrProtectedEntry)
	}
	if c.Name != name {
		if _, ok := model.FindCategory(d.Categories, c.Name); ok {
			return fmt.Errorf("category %q: %w", c.Name, common.ErrDuplicateEntry)
		}
	}
	for i := range d.Categories {
		if d.Categories[i].Name == name {
			d.Categories[i] = c
			return nil
		}
	}
	return fmt.Errorf("category %q: %w", name, common.ErrNotFound)
}

// RemoveCategory deletes the named category. The General category is
// protected.
func (d *Document) RemoveCategory(name string) error {
	if name == model.GeneralCategory {
		return fmt.Errorf("category %q: %w", name, common.ErrProtectedEntry)
	}
	for i := range d.Categories {
		if d.Categories[i].Name == name {
			d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %q: %w", name, common.ErrNotFound)
}

// AddVariable appends a variable, rejecting duplicates by name.
func (d *Document) AddVariable(v model.Variable) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, ok := model.FindVariable(d.Variables, v.Name); ok {
		return fmt.Errorf("variable %q: %w", v.Name, common.ErrDuplicateEntry)
	}
	d.Variables = append(d.Variables, v)
	return nil
}

// UpdateVariable replaces the named variable. The original_name
// variable can be updated but not renamed.
func (d *Document) UpdateVariable(name string, v model.Variable) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if name == model.OriginalNameVariable && v.Name != model.OriginalNameVariable {
		return fmt.Errorf("variable %q: %w", name, common.ErrProtectedEntry)
	}
	if v.Name != name {
		if _, ok := model.FindVariable(d.Variables, v.Name); ok {
			return fmt.Errorf("variable %q: %w", v.Name, common.ErrDuplicateEntry)
		}
	}
	for i := range d.Variables {
		if d.Variables[i].Name == name {
			d.Variables[i] = v
			return nil
		}
	}
	return fmt.Errorf("variable %q: %w", name, common.ErrNotFound)
}

// RemoveVariable deletes the named variable. The original_name
// variable is protected.
func (d *Document) RemoveVariable(name string) error {
	if name == model.OriginalNameVariable {
		return fmt.Errorf("variable %q: %w", name, common.ErrProtectedEntry)
	}
	for i := range d.Variables {
		if d.Variables[i].Name == name {
			d.Variables = append(d.Variables[:i], d.Variables[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("variable %q: %w", name, common.ErrNotFound)
}
