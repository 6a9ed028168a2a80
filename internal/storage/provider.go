// Package storage defines the vault file-access abstraction.
package storage

import "github.com/starford/raido/internal/models"

// Provider is the interface for vault file operations. All paths are
// relative to the vault root, forward-slash separated. Failures carry the
// apperr taxonomy (NotFound, PermissionDenied, AlreadyExists, IO).
type Provider interface {
	// List returns metadata for every note file under dir, recursively.
	List(dir string) ([]models.NoteMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Stat returns file metadata for path.
	Stat(path string) (models.FileInfo, error)
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}
