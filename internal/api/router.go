package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/vault"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *vault.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.PutNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// Tags.
	r.Get("/tags", h.GetTags)
	r.Post("/tags", h.UpdateTags)

	// Rename.
	r.Post("/rename", h.Rename)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
