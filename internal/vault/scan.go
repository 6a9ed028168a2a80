package vault

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/parser"
)

// SortByModified sorts scan results by last-modified time, newest first.
const SortByModified = "modified"

// ScanOptions controls a vault scan.
type ScanOptions struct {
	// IncludeStats attaches word count and byte size per file.
	IncludeStats bool
	// IncludeFrontmatter attaches the parsed front-matter mapping per file.
	IncludeFrontmatter bool
	// SortBy is empty (enumeration order) or SortByModified.
	SortBy string
	// Limit truncates the result to the first N entries after sorting.
	Limit int
	// Pattern is an optional doublestar glob filtering paths, e.g.
	// "projects/**/*.md".
	Pattern string
}

// FileStats holds per-file statistics.
type FileStats struct {
	WordCount int   `json:"wordCount"`
	Size      int64 `json:"size"`
}

// FileSummary is one scan result entry.
type FileSummary struct {
	Path        string              `json:"path"`
	Modified    time.Time           `json:"modified"`
	Stats       *FileStats          `json:"stats,omitempty"`
	Frontmatter *parser.FrontMatter `json:"frontmatter,omitempty"`
}

// ScanResult wraps the enumerated files.
type ScanResult struct {
	Files []FileSummary `json:"files"`
}

// Scan enumerates every note under the vault root. An empty vault yields an
// empty sequence, not an error.
func (s *Service) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	if opts.SortBy != "" && opts.SortBy != SortByModified {
		return nil, apperr.New(apperr.KindInvalidArgument, "scan: unknown sortBy %q", opts.SortBy)
	}
	if opts.Limit < 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "scan: limit must be positive")
	}
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, apperr.New(apperr.KindInvalidArgument, "scan: invalid pattern %q", opts.Pattern)
	}

	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	if opts.Pattern != "" {
		filtered := metas[:0]
		for _, m := range metas {
			if ok, _ := doublestar.Match(opts.Pattern, m.Path); ok {
				filtered = append(filtered, m)
			}
		}
		metas = filtered
	}

	// File content is only needed for stats and front-matter.
	var data [][]byte
	if opts.IncludeStats || opts.IncludeFrontmatter {
		if data, err = s.readAll(ctx, metas); err != nil {
			return nil, err
		}
	}

	files := make([]FileSummary, len(metas))
	for i, m := range metas {
		f := FileSummary{Path: m.Path, Modified: m.Modified}
		if opts.IncludeStats {
			f.Stats = &FileStats{
				WordCount: len(strings.Fields(string(data[i]))),
				Size:      m.Size,
			}
		}
		if opts.IncludeFrontmatter {
			fm, _ := parser.Parse(data[i])
			f.Frontmatter = &fm
		}
		files[i] = f
	}

	if opts.SortBy == SortByModified {
		// Stable: enumeration order breaks timestamp ties.
		sort.SliceStable(files, func(a, b int) bool {
			return files[a].Modified.After(files[b].Modified)
		})
	}
	if opts.Limit > 0 && len(files) > opts.Limit {
		files = files[:opts.Limit]
	}

	return &ScanResult{Files: files}, nil
}
