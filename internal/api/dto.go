package api

// WriteNoteRequest is the body for PUT /notes/{path}.
type WriteNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateTagsRequest is the body for POST /tags. Add entries are normalized
// before insertion; Remove filters exact strings; a non-null Replace wins
// over both (an empty array clears the tag set).
type UpdateTagsRequest struct {
	Path    string   `json:"path" validate:"required"`
	Add     []string `json:"add,omitempty"`
	Remove  []string `json:"remove,omitempty"`
	Replace []string `json:"replace,omitempty"`
}

// RenameRequest is the body for POST /rename.
type RenameRequest struct {
	OldPath string `json:"old_path" validate:"required"`
	NewPath string `json:"new_path" validate:"required"`
}
