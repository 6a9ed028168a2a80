package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/vault"
)

// Handler holds API route handlers.
type Handler struct {
	svc *vault.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *vault.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeError maps an error to an HTTP status via its kind and writes the
// JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindInvalidArgument:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindPermissionDenied:
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}

// ListNotes handles GET /notes.
//
//	@Summary		Enumerate vault notes with optional stats, front-matter, sorting, and glob filtering
//	@Tags			notes
//	@Produce		json
//	@Param			include_stats		query	bool	false	"Attach word count and byte size"
//	@Param			include_frontmatter	query	bool	false	"Attach parsed front-matter"
//	@Param			sort				query	string	false	"Sort order"	Enums(modified)
//	@Param			limit				query	int		false	"Truncate to first N entries"
//	@Param			pattern				query	string	false	"Glob filter, e.g. projects/**/*.md"
//	@Success		200	{object}	vault.ScanResult
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.svc.Scan(r.Context(), vault.ScanOptions{
		IncludeStats:       q.Get("include_stats") == "true",
		IncludeFrontmatter: q.Get("include_frontmatter") == "true",
		SortBy:             q.Get("sort"),
		Limit:              limit,
		Pattern:            q.Get("pattern"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetNote handles GET /notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	vault.NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// PutNote handles PUT /notes/*. Creates the note when absent, overwrites
// otherwise; an If-Match header enforces optimistic concurrency against the
// current checksum.
//
//	@Summary		Create or update a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string				true	"Note path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	WriteNoteRequest	true	"Full note content"
//	@Success		200	{object}	vault.NoteDetail
//	@Failure		400	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [put]
func (h *Handler) PutNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req WriteNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	note, err := h.svc.WriteNote(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/*.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			path	path	string	true	"Note path"
//	@Success		204		"Note deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), path); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
//
//	@Summary		Line-oriented search across all notes
//	@Tags			search
//	@Produce		json
//	@Param			q				query	string	true	"Search query"
//	@Param			regex			query	bool	false	"Interpret as regular expression"
//	@Param			case_sensitive	query	bool	false	"Match case-sensitively"
//	@Param			context			query	int		false	"Context lines around each match"
//	@Param			max_line_length	query	int		false	"Truncate matched lines to N characters"
//	@Param			limit			query	int		false	"Cap the number of matches"
//	@Success		200	{object}	vault.SearchResult
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	contextLines, _ := strconv.Atoi(q.Get("context"))
	maxLineLength, _ := strconv.Atoi(q.Get("max_line_length"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.svc.Search(r.Context(), query, vault.SearchOptions{
		Regex:         q.Get("regex") == "true",
		CaseSensitive: q.Get("case_sensitive") == "true",
		MaxLineLength: maxLineLength,
		ContextLines:  contextLines,
		MaxResults:    limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetTags handles GET /tags. With ?path= it returns the tag set of one note;
// without it, the vault-wide frequency map.
//
//	@Summary		Tags of one note or the vault-wide frequency map
//	@Tags			tags
//	@Produce		json
//	@Param			path	query		string	false	"Note path"
//	@Success		200		{object}	vault.TagCounts
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		res, err := h.svc.TagCounts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}
	res, err := h.svc.Tags(r.Context(), path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UpdateTags handles POST /tags.
//
//	@Summary		Mutate a note's front-matter tag set
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateTagsRequest	true	"Tag mutation"
//	@Success		200		{object}	vault.UpdateTagsResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags [post]
func (h *Handler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res, err := h.svc.UpdateTags(r.Context(), req.Path, req.Add, req.Remove, req.Replace)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Rename handles POST /rename.
//
//	@Summary		Move a note and count wiki-links referencing its old path
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenameRequest	true	"Old and new paths"
//	@Success		200		{object}	vault.RenameResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rename [post]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.OldPath == "" || req.NewPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("old_path and new_path are required"))
		return
	}
	res, err := h.svc.Rename(r.Context(), req.OldPath, req.NewPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
