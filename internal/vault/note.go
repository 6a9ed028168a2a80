package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string              `json:"path"`
	Title       string              `json:"title,omitempty"`
	Frontmatter *parser.FrontMatter `json:"frontmatter,omitempty"`
	Body        string              `json:"body"`
	Tags        []string            `json:"tags"`
	Links       []string            `json:"links"`
	Checksum    string              `json:"checksum"`
	Modified    time.Time           `json:"modified"`
	Size        int64               `json:"size"`
}

// GetNote reads and parses a single note.
func (s *Service) GetNote(ctx context.Context, path string) (*NoteDetail, error) {
	if err := requireWritePath(path); err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Stat(path)
	if err != nil {
		return nil, err
	}

	fm, body := parser.Parse(data)
	detail := &NoteDetail{
		Path:     path,
		Title:    parser.DeriveTitle(fm, body),
		Body:     body,
		Tags:     noteTags(fm, body),
		Links:    nonNilSlice(parser.ExtractLinks(body)),
		Checksum: checksum(data),
		Modified: info.Modified,
		Size:     info.Size,
	}
	if fm.Len() > 0 {
		detail.Frontmatter = &fm
	}
	return detail, nil
}

// WriteNote writes raw note content. ifMatch, when non-empty, is compared
// against the checksum of the existing content; a mismatch fails with
// Conflict. Emits an add or change notification depending on prior
// existence.
func (s *Service) WriteNote(ctx context.Context, path string, content []byte, ifMatch string) (*NoteDetail, error) {
	if err := requireWritePath(path); err != nil {
		return nil, err
	}

	event := models.EventAdd
	existing, err := s.store.Read(path)
	switch {
	case err == nil:
		event = models.EventChange
		if ifMatch != "" && ifMatch != checksum(existing) {
			return nil, apperr.New(apperr.KindConflict, "write %s: checksum mismatch", path)
		}
	case apperr.KindOf(err) == apperr.KindNotFound:
		if ifMatch != "" {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	s.notify(path, event)
	return s.GetNote(ctx, path)
}

// DeleteNote removes a note and emits an unlink notification.
func (s *Service) DeleteNote(ctx context.Context, path string) error {
	if err := requireWritePath(path); err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil {
		return err
	}
	s.notify(path, models.EventUnlink)
	return nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
