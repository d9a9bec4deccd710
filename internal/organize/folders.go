package organize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FallbackStem names a document when nothing better can be rendered.
const FallbackStem = "unnamed_file"

// EnsureCategoryFolder creates the category's subfolder under root if
// needed and returns its path.
func EnsureCategoryFolder(root, category string) (string, error) {
	dir := filepath.Join(root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category folder: %w", err)
	}
	return dir, nil
}

// ResolveDestination returns the first free path in dir for stem+ext,
// appending _1, _2, ... before the extension until a name is available.
func ResolveDestination(dir, stem, ext string) (string, error) {
	candidate := filepath.Join(dir, stem+ext)
	for counter := 1; ; counter++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check destination: %w", err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}

// sanitizeStem makes a rendered name safe to use as a single filename
// component. Language model output occasionally contains separators or
// leading dots that would change where the file lands.
func sanitizeStem(stem string) string {
	stem = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		default:
			return r
		}
	}, stem)
	stem = strings.Trim(stem, ". ")
	if stem == "" {
		return FallbackStem
	}
	return stem
}
