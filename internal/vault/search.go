package vault

import (
	"context"
	"regexp"
	"strings"

	"github.com/starford/raido/internal/apperr"
)

// DefaultMaxLineLength is the per-line truncation applied to matched text.
const DefaultMaxLineLength = 200

// SearchOptions controls a content search.
type SearchOptions struct {
	// Regex interprets the query as a regular expression.
	Regex bool
	// CaseSensitive disables case folding for literal and regex matching.
	CaseSensitive bool
	// MaxLineLength truncates matched line content; defaults to
	// DefaultMaxLineLength when zero.
	MaxLineLength int
	// ContextLines attaches up to that many lines before and after each
	// match, clamped at file boundaries.
	ContextLines int
	// MaxResults caps the match count; zero means unlimited.
	MaxResults int
}

// MatchContext holds the lines surrounding a match.
type MatchContext struct {
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// Match is one search hit. Line numbers are 1-based.
type Match struct {
	Path    string        `json:"path"`
	Line    int           `json:"line"`
	Text    string        `json:"text"`
	Context *MatchContext `json:"context,omitempty"`
}

// SearchResult wraps the matches and the truncation flag. Truncated is set
// only when MaxResults cut off further matches.
type SearchResult struct {
	Matches   []Match `json:"matches"`
	Truncated bool    `json:"truncated,omitempty"`
}

// Search performs a line-oriented search across every note. Matches are
// produced in file-enumeration order, then line order; there is no
// relevance ranking.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	if query == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "search: query is required")
	}
	if opts.ContextLines < 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "search: contextLines must not be negative")
	}
	if opts.MaxResults < 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "search: maxResults must be positive")
	}
	maxLine := opts.MaxLineLength
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}

	matcher, err := buildMatcher(query, opts)
	if err != nil {
		return nil, err
	}

	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	data, err := s.readAll(ctx, metas)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Matches: []Match{}}
	for i, m := range metas {
		lines := strings.Split(string(data[i]), "\n")
		for n, line := range lines {
			if !matcher(line) {
				continue
			}
			if opts.MaxResults > 0 && len(result.Matches) == opts.MaxResults {
				result.Truncated = true
				return result, nil
			}
			match := Match{
				Path: m.Path,
				Line: n + 1,
				Text: truncateLine(line, maxLine),
			}
			if opts.ContextLines > 0 {
				match.Context = contextWindow(lines, n, opts.ContextLines)
			}
			result.Matches = append(result.Matches, match)
		}
	}
	return result, nil
}

// buildMatcher compiles the per-line predicate. Invalid regex patterns fail
// with InvalidArgument.
func buildMatcher(query string, opts SearchOptions) (func(string) bool, error) {
	if opts.Regex {
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidArgument, "search: invalid pattern %q: %v", query, err)
		}
		return re.MatchString, nil
	}
	if opts.CaseSensitive {
		return func(line string) bool { return strings.Contains(line, query) }, nil
	}
	needle := strings.ToLower(query)
	return func(line string) bool { return strings.Contains(strings.ToLower(line), needle) }, nil
}

func truncateLine(line string, max int) string {
	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	return string(runes[:max])
}

func contextWindow(lines []string, idx, n int) *MatchContext {
	start := idx - n
	if start < 0 {
		start = 0
	}
	end := idx + n + 1
	if end > len(lines) {
		end = len(lines)
	}
	ctx := &MatchContext{Before: []string{}, After: []string{}}
	ctx.Before = append(ctx.Before, lines[start:idx]...)
	ctx.After = append(ctx.After, lines[idx+1:end]...)
	return ctx
}
