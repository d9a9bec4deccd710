package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCategoryFolder(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureCategoryFolder(root, "Invoices")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Invoices"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating it again is fine.
	again, err := EnsureCategoryFolder(root, "Invoices")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestResolveDestination(t *testing.T) {
	dir := t.TempDir()

	dest, err := ResolveDestination(dir, "report", ".pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), dest)

	// Occupy the base name, then the first two suffixes.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0o644))

	dest, err = ResolveDestination(dir, "report", ".pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_1.pdf"), dest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report_1.pdf"), []byte("x"), 0o644))

	dest, err = ResolveDestination(dir, "report", ".pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_2.pdf"), dest)
}

func TestSanitizeStem(t *testing.T) {
	tests := []struct {
		name string
		stem string
		want string
	}{
		{name: "clean stem unchanged", stem: "2024-01-15_Acme_Invoice", want: "2024-01-15_Acme_Invoice"},
		{name: "forward slashes replaced", stem: "2024/01/15_Acme", want: "2024_01_15_Acme"},
		{name: "backslashes replaced", stem: `a\b\c`, want: "a_b_c"},
		{name: "nul bytes replaced", stem: "a\x00b", want: "a_b"},
		{name: "leading dots trimmed", stem: "..hidden", want: "hidden"},
		{name: "surrounding spaces trimmed", stem: "  padded  ", want: "padded"},
		{name: "empty falls back", stem: "", want: FallbackStem},
		{name: "only dots falls back", stem: "...", want: FallbackStem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeStem(tt.stem))
		})
	}
}

func TestPlacerPlace(t *testing.T) {
	t.Run("moves into directory", func(t *testing.T) {
		root := t.TempDir()
		src := filepath.Join(root, "incoming.pdf")
		require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))
		dir := filepath.Join(root, "Invoices")
		require.NoError(t, os.MkdirAll(dir, 0o755))

		p := newPlacer()
		dest, err := p.Place(src, dir, "Acme_2024", ".pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Acme_2024.pdf"), dest)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
		assert.NoFileExists(t, src)
	})

	t.Run("suffixes on conflict", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "Invoices")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Acme.pdf"), []byte("old"), 0o644))

		src := filepath.Join(root, "incoming.pdf")
		require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))

		p := newPlacer()
		dest, err := p.Place(src, dir, "Acme", ".pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Acme_1.pdf"), dest)

		// The occupied name is untouched.
		data, err := os.ReadFile(filepath.Join(dir, "Acme.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
	})

	t.Run("placing onto itself is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "already_named.pdf")
		require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

		p := newPlacer()
		dest, err := p.Place(src, dir, "already_named", ".pdf")
		require.NoError(t, err)
		assert.Equal(t, src, dest)

		// No already_named_1.pdf appeared.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestMoveFile(t *testing.T) {
	t.Run("renames within a filesystem", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.txt")
		dest := filepath.Join(dir, "b.txt")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

		require.NoError(t, moveFile(src, dest))

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		assert.NoFileExists(t, src)
	})

	t.Run("missing source errors", func(t *testing.T) {
		dir := t.TempDir()
		err := moveFile(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "dest.txt"))
		assert.Error(t, err)
	})
}
