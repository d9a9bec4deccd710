package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// placer serializes placements per destination directory so two
// concurrent workers cannot claim the same free filename.
type placer struct {
	mu   sync.Mutex
	dirs map[string]*sync.Mutex
}

func newPlacer() *placer {
	return &placer{dirs: make(map[string]*sync.Mutex)}
}

func (p *placer) dirLock(dir string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.dirs[dir]
	if !ok {
		m = &sync.Mutex{}
		p.dirs[dir] = m
	}
	return m
}

// Place moves src into dir under stem+ext, resolving name conflicts.
// It returns the final path. When the file already sits at its target
// name, Place leaves it alone.
func (p *placer) Place(src, dir, stem, ext string) (string, error) {
	m := p.dirLock(dir)
	m.Lock()
	defer m.Unlock()

	if filepath.Join(dir, stem+ext) == src {
		return src, nil
	}

	dest, err := ResolveDestination(dir, stem, ext)
	if err != nil {
		return "", err
	}
	if err := moveFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// moveFile renames src to dest, falling back to copy and remove when
// the rename crosses filesystem boundaries.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return fmt.Errorf("failed to move file: %w", err)
	}

	if copyErr := copyFile(src, dest); copyErr != nil {
		return fmt.Errorf("failed to copy file across filesystems: %w", copyErr)
	}
	if rmErr := os.Remove(src); rmErr != nil {
		return fmt.Errorf("failed to remove source after copy: %w", rmErr)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return nil
}
