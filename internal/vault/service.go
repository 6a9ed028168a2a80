// Package vault implements the query/mutation toolset over a vault of
// Markdown notes. Every operation works on a fresh per-call snapshot of the
// file tree; no state is shared between calls.
package vault

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Notifier is the change-notification sink. Delivery is fire-and-forget.
type Notifier interface {
	Notify(path string, event models.Event)
}

// Service exposes the vault toolset over a storage provider.
type Service struct {
	store   storage.Provider
	sink    Notifier
	workers int
}

// NewService creates a vault service. sink may be nil when no notification
// delivery is wanted. workers bounds parallel per-file reads during a scan.
func NewService(store storage.Provider, sink Notifier, workers int) *Service {
	if workers <= 0 {
		workers = 8
	}
	return &Service{store: store, sink: sink, workers: workers}
}

func (s *Service) notify(path string, event models.Event) {
	if s.sink != nil {
		s.sink.Notify(path, event)
	}
}

// readAll reads every listed file, bounded-parallel, preserving the
// enumeration order of metas in the returned slice.
func (s *Service) readAll(ctx context.Context, metas []models.NoteMeta) ([][]byte, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	data := make([][]byte, len(metas))
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			b, err := s.store.Read(m.Path)
			if err != nil {
				return err
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// requireWritePath validates a mutation target: non-empty, relative,
// forward-slash separated, no traversal.
func requireWritePath(path string) error {
	switch {
	case path == "":
		return apperr.New(apperr.KindInvalidArgument, "path is required")
	case strings.HasPrefix(path, "/"):
		return apperr.New(apperr.KindInvalidArgument, "path %s: must be relative", path)
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return apperr.New(apperr.KindInvalidArgument, "path %s: traversal not allowed", path)
		}
	}
	return nil
}
