package vault

import (
	"context"
	"regexp"
	"strings"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// TagList is the tag set of a single note.
type TagList struct {
	Tags []string `json:"tags"`
}

// TagCounts maps tag → number of notes containing it.
type TagCounts struct {
	Tags map[string]int `json:"tags"`
}

// UpdateTagsResult reports the front-matter tag sequence after a mutation.
type UpdateTagsResult struct {
	Success bool     `json:"success"`
	Tags    []string `json:"tags"`
}

// Tags returns the de-duplicated union of front-matter and inline tags for
// one note: front-matter order first, then new inline tags in occurrence
// order.
func (s *Service) Tags(ctx context.Context, path string) (*TagList, error) {
	if err := requireWritePath(path); err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	fm, body := parser.Parse(data)
	return &TagList{Tags: noteTags(fm, body)}, nil
}

// TagCounts computes per-note tag sets for every note and aggregates a
// frequency map: tag → count of notes containing it, not total occurrences.
func (s *Service) TagCounts(ctx context.Context) (*TagCounts, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	data, err := s.readAll(ctx, metas)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := range metas {
		fm, body := parser.Parse(data[i])
		for _, tag := range noteTags(fm, body) {
			counts[tag]++
		}
	}
	return &TagCounts{Tags: counts}, nil
}

// UpdateTags mutates a note's front-matter tag sequence. replace, when
// non-nil, wins outright; otherwise remove filters exact strings and add
// appends normalized tags that are not already present. The body is left
// byte-identical.
func (s *Service) UpdateTags(ctx context.Context, path string, add, remove, replace []string) (*UpdateTagsResult, error) {
	if err := requireWritePath(path); err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	fm, body := parser.Parse(data)

	var tags []string
	if replace != nil {
		tags = append(tags, replace...)
	} else {
		tags = frontmatterTags(fm)
		if len(remove) > 0 {
			drop := make(map[string]struct{}, len(remove))
			for _, r := range remove {
				drop[r] = struct{}{}
			}
			kept := tags[:0]
			for _, t := range tags {
				if _, gone := drop[t]; !gone {
					kept = append(kept, t)
				}
			}
			tags = kept
		}
		present := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			present[t] = struct{}{}
		}
		for _, raw := range add {
			t := NormalizeTag(raw)
			if t == "" {
				continue
			}
			if _, dup := present[t]; dup {
				continue
			}
			present[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	if tags == nil {
		tags = []string{}
	}

	fm.Set("tags", parser.ListValue(tags))
	if err := s.store.Write(path, parser.Render(fm, body)); err != nil {
		return nil, err
	}
	s.notify(path, models.EventChange)

	return &UpdateTagsResult{Success: true, Tags: tags}, nil
}

// NormalizeTag strips a leading "#", lower-cases, and replaces whitespace
// runs with hyphens.
func NormalizeTag(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	s = strings.ToLower(s)
	return whitespaceRe.ReplaceAllString(s, "-")
}

// noteTags merges front-matter and inline tags for one note.
func noteTags(fm parser.FrontMatter, body string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, t := range frontmatterTags(fm) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range parser.ExtractInlineTags(body) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// frontmatterTags reads the "tags" field; a scalar value is treated as a
// single-element sequence.
func frontmatterTags(fm parser.FrontMatter) []string {
	v, ok := fm.Get("tags")
	if !ok {
		return nil
	}
	if v.IsList {
		return append([]string(nil), v.List...)
	}
	if v.Str == "" {
		return nil
	}
	return []string{v.Str}
}
