// Package mcpserver exposes the vault toolset over MCP (Model Context
// Protocol) for LLM and editor integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/vault"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *vault.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *vault.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_vault",
		mcp.WithDescription("Enumerate all notes in the vault with optional statistics, front-matter, sorting, and limiting."),
		mcp.WithBoolean("include_stats", mcp.Description("Attach word count and byte size per file")),
		mcp.WithBoolean("include_frontmatter", mcp.Description("Attach the parsed front-matter mapping per file")),
		mcp.WithString("sort_by", mcp.Description("Sort order: empty for enumeration order, or 'modified' for newest first")),
		mcp.WithNumber("limit", mcp.Description("Truncate the result to the first N entries after sorting")),
		mcp.WithString("pattern", mcp.Description("Optional glob filtering paths, e.g. projects/**/*.md")),
	), s.scanVault)

	s.mcp.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Line-oriented full-text search across all notes with optional regex, context windows, and result capping."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query (literal substring or regex)")),
		mcp.WithBoolean("is_regex", mcp.Description("Interpret the query as a regular expression")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case-sensitively (default false)")),
		mcp.WithNumber("max_line_length", mcp.Description("Truncate matched line content to this many characters (default 200)")),
		mcp.WithNumber("context_lines", mcp.Description("Attach up to N lines before and after each match")),
		mcp.WithNumber("max_results", mcp.Description("Cap the number of matches; sets 'truncated' when exceeded")),
	), s.searchContent)

	s.mcp.AddTool(mcp.NewTool("get_tags",
		mcp.WithDescription("Tags of a single note (front-matter plus inline, de-duplicated) or, without a path, a tag frequency map across the vault."),
		mcp.WithString("path", mcp.Description("Relative note path; omit for the vault-wide frequency map")),
	), s.getTags)

	s.mcp.AddTool(mcp.NewTool("update_tags",
		mcp.WithDescription("Mutate a note's front-matter tag set. 'replace' wins outright; otherwise 'remove' filters exact strings and 'add' appends normalized tags."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative note path")),
		mcp.WithArray("add", mcp.Description("Tags to append (normalized: leading # stripped, lower-cased, whitespace → hyphens)"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("remove", mcp.Description("Exact tag strings to remove"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("replace", mcp.Description("Replacement tag sequence; takes precedence over add/remove"), mcp.Items(map[string]any{"type": "string"})),
	), s.updateTags)

	s.mcp.AddTool(mcp.NewTool("rename_note",
		mcp.WithDescription("Move a note to a new path and count wiki-links in other notes that referenced the old path. Links are counted, not rewritten."),
		mcp.WithString("old_path", mcp.Required(), mcp.Description("Current relative path of the note")),
		mcp.WithString("new_path", mcp.Required(), mcp.Description("Target relative path (must not exist)")),
	), s.renameNote)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note: parsed front-matter, body, tags, wikilinks, and file metadata."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Write full note content to a path. Content SHOULD follow the canonical note format "+
			"(front-matter block with tags, Markdown body). Read the contract first via the get_note_contract "+
			"tool or the raido://note-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the note (must end with the note extension)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full Markdown content including any front-matter block")),
	), s.writeNote)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical Raido note format contract. "+
			"Call this before writing notes to ensure correct structure."),
	), s.getNoteContract)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical Markdown note format that all notes should follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) scanVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Scan(ctx, vault.ScanOptions{
		IncludeStats:       req.GetBool("include_stats", false),
		IncludeFrontmatter: req.GetBool("include_frontmatter", false),
		SortBy:             req.GetString("sort_by", ""),
		Limit:              req.GetInt("limit", 0),
		Pattern:            req.GetString("pattern", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) searchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Search(ctx, query, vault.SearchOptions{
		Regex:         req.GetBool("is_regex", false),
		CaseSensitive: req.GetBool("case_sensitive", false),
		MaxLineLength: req.GetInt("max_line_length", 0),
		ContextLines:  req.GetInt("context_lines", 0),
		MaxResults:    req.GetInt("max_results", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		res, err := s.svc.TagCounts(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(res)
	}
	res, err := s.svc.Tags(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) updateTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.UpdateTags(ctx, path,
		stringSliceArg(req, "add"),
		stringSliceArg(req, "remove"),
		stringSliceArg(req, "replace"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) renameNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldPath, err := req.RequireString("old_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newPath, err := req.RequireString("new_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Rename(ctx, oldPath, newPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetNote(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(detail)
}

func (s *Server) writeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.WriteNote(ctx, path, []byte(content), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("written: %s (checksum %s)", detail.Path, detail.Checksum)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// stringSliceArg reads an optional array-of-strings argument. A missing key
// yields nil; an empty array yields an empty, non-nil slice (the two are
// distinct for update_tags 'replace').
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
