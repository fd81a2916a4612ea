// Package store keeps downloaded icons in a single output directory.
// The presence of <dir>/<slug>.webp is the only state that survives between runs.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"iconfetcher/internal/fetcher"
)

// Ext is the extension given to every icon file
const Ext = ".webp"

// Dir is an output directory for one icon source
type Dir struct {
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir. The directory must already exist.
func New(fs afero.Fs, dir string) (*Dir, error) {
	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("output directory %s does not exist", dir)
	}

	return &Dir{fs: fs, dir: dir}, nil
}

// NewOS returns a store backed by the real filesystem
func NewOS(dir string) (*Dir, error) {
	return New(afero.NewOsFs(), dir)
}

// Path returns the file an icon for slug is stored at
func (d *Dir) Path(slug string) string {
	return filepath.Join(d.dir, slug+Ext)
}

// Exists reports whether an icon for slug is already on disk
func (d *Dir) Exists(slug string) (bool, error) {
	if err := checkSlug(slug); err != nil {
		return false, err
	}

	ok, err := afero.Exists(d.fs, d.Path(slug))
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", d.Path(slug), err)
	}
	return ok, nil
}

// Write stores data as the icon for slug, replacing any previous file
func (d *Dir) Write(slug string, data []byte) error {
	if err := checkSlug(slug); err != nil {
		return err
	}

	if err := afero.WriteFile(d.fs, d.Path(slug), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path(slug), err)
	}
	return nil
}

// checkSlug rejects slugs that would leave the directory. Dots and, on
// Unix, backslashes are fine: Path always appends Ext.
func checkSlug(slug string) error {
	switch {
	case slug == "":
		return fetcher.NewValidationError("empty slug")
	case strings.ContainsRune(slug, '/') || strings.ContainsRune(slug, filepath.Separator):
		return fetcher.NewValidationError(fmt.Sprintf("slug %q contains a path separator", slug))
	}
	return nil
}
