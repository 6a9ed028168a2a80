package parser

import (
	"encoding/json"
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - raido\n---\n\n# Hello\nBody text.\n")
	fm, body := Parse(input)
	if fm.Len() != 2 {
		t.Fatalf("fields = %d, want 2", fm.Len())
	}
	title, ok := fm.Get("title")
	if !ok || title.IsList || title.Str != "Hello" {
		t.Errorf("title = %+v", title)
	}
	tags, ok := fm.Get("tags")
	if !ok || !tags.IsList || len(tags.List) != 2 || tags.List[0] != "go" || tags.List[1] != "raido" {
		t.Errorf("tags = %+v", tags)
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	fm, body := Parse(input)
	if fm.Len() != 0 {
		t.Errorf("expected empty frontmatter, got %+v", fm)
	}
	if body != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestParse_DelimiterNotAtStart(t *testing.T) {
	input := []byte("\n---\ntitle: x\n---\nbody\n")
	fm, body := Parse(input)
	if fm.Len() != 0 {
		t.Error("leading blank line should disable frontmatter detection")
	}
	if body != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestParse_NoClosingDelimiter(t *testing.T) {
	input := []byte("---\ntitle: x\nno close\n")
	fm, body := Parse(input)
	if fm.Len() != 0 {
		t.Error("expected empty frontmatter without closing delimiter")
	}
	if body != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestParse_InvalidBlockFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	fm, body := Parse(input)
	if fm.Len() != 0 {
		t.Error("expected empty frontmatter on invalid block")
	}
	if body != string(input) {
		t.Errorf("body = %q", body)
	}
}

func TestParse_DuplicateKeysFirstWins(t *testing.T) {
	input := []byte("---\nstatus: draft\nstatus: final\n---\n\nbody")
	fm, _ := Parse(input)
	v, ok := fm.Get("status")
	if !ok || v.Str != "draft" {
		t.Errorf("status = %+v, want first occurrence", v)
	}
	if fm.Len() != 1 {
		t.Errorf("fields = %d, want 1", fm.Len())
	}
}

func TestParse_ValuesStayStrings(t *testing.T) {
	input := []byte("---\ncreated: 2024-01-01\ncount: 42\ndone: true\n---\n\nbody")
	fm, _ := Parse(input)
	for key, want := range map[string]string{"created": "2024-01-01", "count": "42", "done": "true"} {
		v, ok := fm.Get(key)
		if !ok || v.IsList || v.Str != want {
			t.Errorf("%s = %+v, want scalar %q", key, v, want)
		}
	}
}

func TestRender_RoundTrip(t *testing.T) {
	var fm FrontMatter
	fm.Set("tags", ListValue([]string{"a", "b"}))
	fm.Set("created", ScalarValue("2024-01-01"))
	body := "Hello"

	raw := Render(fm, body)
	want := "---\ntags:\n  - a\n  - b\ncreated: 2024-01-01\n---\n\nHello"
	if string(raw) != want {
		t.Fatalf("rendered = %q, want %q", raw, want)
	}

	got, gotBody := Parse(raw)
	if gotBody != body {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
	tags, _ := got.Get("tags")
	if !tags.IsList || len(tags.List) != 2 || tags.List[0] != "a" || tags.List[1] != "b" {
		t.Errorf("tags = %+v", tags)
	}
	created, _ := got.Get("created")
	if created.Str != "2024-01-01" {
		t.Errorf("created = %+v", created)
	}

	// A second render must be byte-identical.
	if string(Render(got, gotBody)) != want {
		t.Errorf("second render differs: %q", Render(got, gotBody))
	}
}

func TestRender_EmptyFrontmatter(t *testing.T) {
	raw := Render(FrontMatter{}, "just body\n")
	if string(raw) != "just body\n" {
		t.Errorf("rendered = %q", raw)
	}
}

func TestRender_EmptyList(t *testing.T) {
	var fm FrontMatter
	fm.Set("tags", ListValue(nil))
	raw := Render(fm, "b")
	if string(raw) != "---\ntags: []\n---\n\nb" {
		t.Fatalf("rendered = %q", raw)
	}
	got, _ := Parse(raw)
	tags, ok := got.Get("tags")
	if !ok || !tags.IsList || len(tags.List) != 0 {
		t.Errorf("tags = %+v, want empty list", tags)
	}
}

func TestExtractInlineTags_OrderAndDuplicates(t *testing.T) {
	tags := ExtractInlineTags("start #beta mid #alpha-1 and #beta again")
	want := []string{"beta", "alpha-1", "beta"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestExtractInlineTags_None(t *testing.T) {
	if tags := ExtractInlineTags("no tags here"); len(tags) != 0 {
		t.Errorf("tags = %v, want none", tags)
	}
}

func TestExtractLinks_Basic(t *testing.T) {
	links := ExtractLinks("See [[Note A]] and [[Note B|alias]].\nAlso [[Note A]] again.")
	if len(links) != 2 || links[0] != "Note A" || links[1] != "Note B" {
		t.Errorf("links = %v", links)
	}
}

func TestExtractLinks_EmptyTarget(t *testing.T) {
	if links := ExtractLinks("see [[ ]] and [[|alias]]"); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	var fm FrontMatter
	fm.Set("title", ScalarValue("FM Title"))
	if got := DeriveTitle(fm, "# H1 Title\ntext"); got != "FM Title" {
		t.Errorf("title = %q", got)
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	if got := DeriveTitle(FrontMatter{}, "some text\n# My Heading\nmore"); got != "My Heading" {
		t.Errorf("title = %q", got)
	}
}

func TestFrontMatter_MarshalJSON(t *testing.T) {
	var fm FrontMatter
	fm.Set("title", ScalarValue("T"))
	fm.Set("tags", ListValue([]string{"x"}))
	out, err := json.Marshal(fm)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"title":"T","tags":["x"]}` {
		t.Errorf("json = %s", out)
	}
}
