package vault

import (
	"context"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// RenameResult reports a completed rename. LinksUpdated is the number of
// wiki-link literals in other notes that referenced the old path; the links
// themselves are counted, not rewritten.
type RenameResult struct {
	Success      bool `json:"success"`
	LinksUpdated int  `json:"linksUpdated"`
}

// Rename moves a note to a new path. The target must not exist; content and
// front-matter move verbatim. Counts exact [[oldPath]] references across
// the remaining notes and emits unlink/add notifications.
func (s *Service) Rename(ctx context.Context, oldPath, newPath string) (*RenameResult, error) {
	if err := requireWritePath(oldPath); err != nil {
		return nil, err
	}
	if err := requireWritePath(newPath); err != nil {
		return nil, err
	}

	if _, err := s.store.Stat(oldPath); err != nil {
		return nil, err
	}
	if _, err := s.store.Stat(newPath); err == nil {
		return nil, apperr.New(apperr.KindAlreadyExists, "rename %s: target %s already exists", oldPath, newPath)
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	if err := s.store.Move(oldPath, newPath); err != nil {
		return nil, err
	}

	links, err := s.countLinks(ctx, oldPath, newPath)
	if err != nil {
		return nil, err
	}

	s.notify(oldPath, models.EventUnlink)
	s.notify(newPath, models.EventAdd)

	return &RenameResult{Success: true, LinksUpdated: links}, nil
}

// countLinks totals exact-string [[target]] occurrences across every note
// except skip (the renamed note itself).
func (s *Service) countLinks(ctx context.Context, target, skip string) (int, error) {
	metas, err := s.store.List("")
	if err != nil {
		return 0, err
	}
	data, err := s.readAll(ctx, metas)
	if err != nil {
		return 0, err
	}
	needle := "[[" + target + "]]"
	total := 0
	for i, m := range metas {
		if m.Path == skip {
			continue
		}
		total += strings.Count(string(data[i]), needle)
	}
	return total, nil
}
