package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to vault directory
	ext  string // note file extension, e.g. ".md"
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root, ext string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	if ext == "" {
		ext = ".md"
	}
	return &FS{root: abs, ext: ext}, nil
}

// Root returns the absolute vault root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", apperr.New(apperr.KindInvalidArgument, "path %s: absolute paths not allowed", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", apperr.New(apperr.KindInvalidArgument, "path %s: %v", rel, err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", apperr.New(apperr.KindInvalidArgument, "path %s: escapes vault root", rel)
	}
	return abs, nil
}

// List walks dir (relative to root) and returns metadata for every note
// file, in deterministic walk order with forward-slash paths.
func (f *FS) List(dir string) ([]models.NoteMeta, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []models.NoteMeta
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), f.ext) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, models.NoteMeta{
			Path:     filepath.ToSlash(rel),
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, apperr.FromOS(err, "list", dir)
	}
	return out, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.FromOS(err, "read", path)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.FromOS(err, "mkdir", path)
	}

	tmp, err := os.CreateTemp(dir, ".raido-tmp-*")
	if err != nil {
		return apperr.FromOS(err, "write", path)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return apperr.FromOS(err, "write", path)
	}
	if err := tmp.Sync(); err != nil {
		return apperr.FromOS(err, "write", path)
	}
	if err := tmp.Close(); err != nil {
		return apperr.FromOS(err, "write", path)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return apperr.FromOS(err, "write", path)
	}
	success = true
	return nil
}

// Stat returns metadata for a vault path.
func (f *FS) Stat(path string) (models.FileInfo, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return models.FileInfo{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return models.FileInfo{}, apperr.FromOS(err, "stat", path)
	}
	return models.FileInfo{
		Modified:    info.ModTime(),
		Size:        info.Size(),
		IsDirectory: info.IsDir(),
	}, nil
}

// Delete removes a file from the vault.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return apperr.FromOS(err, "delete", path)
	}
	return nil
}

// Move renames a file within the vault. Callers guard against overwriting
// an existing target; the rename itself replaces silently on POSIX.
func (f *FS) Move(oldPath, newPath string) error {
	absOld, err := f.safePath(oldPath)
	if err != nil {
		return err
	}
	absNew, err := f.safePath(newPath)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absNew)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.FromOS(err, "mkdir", newPath)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return apperr.FromOS(err, "move", oldPath)
	}
	return nil
}
