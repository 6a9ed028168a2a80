// Package parser splits Markdown notes into front-matter and body and
// extracts inline tags and wikilinks.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`#([\w-]+)`)
)

// Value is a front-matter value: either a scalar string or a sequence of
// strings. No further type coercion happens at the parser boundary.
type Value struct {
	Str    string
	List   []string
	IsList bool
}

// ScalarValue builds a scalar Value.
func ScalarValue(s string) Value { return Value{Str: s} }

// ListValue builds a sequence Value.
func ListValue(items []string) Value { return Value{List: items, IsList: true} }

// MarshalJSON encodes the value as a JSON string or array of strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList {
		items := v.List
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.Str)
}

// Field is one front-matter entry.
type Field struct {
	Key   string
	Value Value
}

// FrontMatter is an ordered set of key/value fields. Keys are unique;
// insertion order is preserved through parse/render round trips.
type FrontMatter struct {
	Fields []Field
}

// Get returns the value for key and whether it is present.
func (fm *FrontMatter) Get(key string) (Value, bool) {
	for _, f := range fm.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value for key in place, or appends a new field.
func (fm *FrontMatter) Set(key string, v Value) {
	for i, f := range fm.Fields {
		if f.Key == key {
			fm.Fields[i].Value = v
			return
		}
	}
	fm.Fields = append(fm.Fields, Field{Key: key, Value: v})
}

// Len returns the number of fields.
func (fm *FrontMatter) Len() int { return len(fm.Fields) }

// MarshalJSON encodes the front-matter as a JSON object in field order.
func (fm FrontMatter) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fm.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Parse splits raw note content into front-matter and body.
//
// A front-matter block is recognized only when the content starts with the
// delimiter line at position zero; it ends at the next delimiter line. When
// there is no block, or the block is not a well-formed key/value mapping,
// the front-matter is empty and the body is the entire input.
func Parse(data []byte) (FrontMatter, string) {
	content := string(data)
	if content != delimiter && !strings.HasPrefix(content, delimiter+"\n") {
		return FrontMatter{}, content
	}

	rest := content[len(delimiter):]
	rest = strings.TrimPrefix(rest, "\n")

	block, after, ok := splitAtClosingDelimiter(rest)
	if !ok {
		// No closing delimiter: the whole content is body.
		return FrontMatter{}, content
	}

	// One blank line separates the block from the body.
	after = strings.TrimPrefix(after, "\n")

	fm, ok := parseBlock(block)
	if !ok {
		return FrontMatter{}, content
	}
	return fm, after
}

// splitAtClosingDelimiter finds the next line that is exactly the delimiter
// and returns the text before it and the text after the delimiter line.
func splitAtClosingDelimiter(s string) (block, after string, ok bool) {
	if strings.HasPrefix(s, delimiter+"\n") {
		return "", s[len(delimiter)+1:], true
	}
	if s == delimiter {
		return "", "", true
	}
	for i := 0; ; {
		idx := strings.Index(s[i:], "\n"+delimiter)
		if idx < 0 {
			return "", "", false
		}
		pos := i + idx
		tail := s[pos+1+len(delimiter):]
		if tail == "" {
			return s[:pos+1], "", true
		}
		if strings.HasPrefix(tail, "\n") {
			return s[:pos+1], tail[1:], true
		}
		i = pos + 1
	}
}

// parseBlock decodes the delimited block into ordered fields. yaml.Node is
// used (rather than a map) so that key order survives and scalar values stay
// raw strings.
func parseBlock(block string) (FrontMatter, bool) {
	var fm FrontMatter
	if strings.TrimSpace(block) == "" {
		return fm, true
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return fm, false
	}
	if len(doc.Content) == 0 {
		return fm, true
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return fm, false
	}

	seen := make(map[string]struct{}, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fm.Fields = append(fm.Fields, Field{Key: key, Value: nodeValue(mapping.Content[i+1])})
	}
	return fm, true
}

func nodeValue(n *yaml.Node) Value {
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, item.Value)
		}
		return ListValue(items)
	case yaml.ScalarNode:
		return ScalarValue(n.Value)
	default:
		// Nested structures are outside the note format; keep the raw text.
		raw, err := yaml.Marshal(n)
		if err != nil {
			return ScalarValue("")
		}
		return ScalarValue(strings.TrimSpace(string(raw)))
	}
}

// Render serializes front-matter and body back to the on-disk layout:
// delimiter line, fields, delimiter line, blank line, body. With no fields
// the body is returned as-is.
func Render(fm FrontMatter, body string) []byte {
	if len(fm.Fields) == 0 {
		return []byte(body)
	}
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	for _, f := range fm.Fields {
		switch {
		case f.Value.IsList && len(f.Value.List) == 0:
			b.WriteString(f.Key + ": []\n")
		case f.Value.IsList:
			b.WriteString(f.Key + ":\n")
			for _, item := range f.Value.List {
				b.WriteString("  - " + item + "\n")
			}
		case f.Value.Str == "":
			b.WriteString(f.Key + ":\n")
		default:
			b.WriteString(f.Key + ": " + f.Value.Str + "\n")
		}
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return []byte(b.String())
}

// ExtractInlineTags scans body text for #tag tokens and returns them in
// first-to-last occurrence order, duplicates included.
func ExtractInlineTags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	var out []string
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ExtractLinks returns deduplicated wikilink targets, normalising aliases
// ([[Target|Alias]] → Target).
func ExtractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// DeriveTitle returns the front-matter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func DeriveTitle(fm FrontMatter, body string) string {
	if v, ok := fm.Get("title"); ok && !v.IsList && v.Str != "" {
		return v.Str
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
