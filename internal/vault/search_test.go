package vault

import (
	"context"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _, _, _ := testService(t)
	if _, err := svc.Search(context.Background(), "", SearchOptions{}); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Errorf("kind = %v, want KindInvalidArgument", apperr.KindOf(err))
	}
}

func TestSearch_InvalidRegex(t *testing.T) {
	svc, _, _, _ := testService(t)
	if _, err := svc.Search(context.Background(), "([", SearchOptions{Regex: true}); apperr.KindOf(err) != apperr.KindInvalidArgument {
		t.Errorf("kind = %v, want KindInvalidArgument", apperr.KindOf(err))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("nothing here"))

	res, err := svc.Search(context.Background(), "absent-token", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("matches = %d, want 0", len(res.Matches))
	}
	if res.Truncated {
		t.Error("truncated should be unset")
	}
}

func TestSearch_CaseInsensitiveByDefault(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("Hello World\nsecond line"))

	res, err := svc.Search(context.Background(), "hello", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(res.Matches))
	}
	m := res.Matches[0]
	if m.Path != "a.md" || m.Line != 1 || m.Text != "Hello World" {
		t.Errorf("match = %+v", m)
	}
}

func TestSearch_CaseSensitive(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("Hello\nhello"))

	res, err := svc.Search(context.Background(), "Hello", SearchOptions{CaseSensitive: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Line != 1 {
		t.Errorf("matches = %+v, want just line 1", res.Matches)
	}
}

func TestSearch_Regex(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("due 2024-01-15\nno date\ndue 2025-02-20"))

	res, err := svc.Search(context.Background(), `\d{4}-\d{2}-\d{2}`, SearchOptions{Regex: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(res.Matches))
	}
	if res.Matches[0].Line != 1 || res.Matches[1].Line != 3 {
		t.Errorf("lines = %d, %d", res.Matches[0].Line, res.Matches[1].Line)
	}
}

func TestSearch_RegexCaseFolding(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("TODO: fix\ndone"))

	res, err := svc.Search(context.Background(), "todo", SearchOptions{Regex: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Errorf("matches = %d, want 1 (case-folded regex)", len(res.Matches))
	}
}

func TestSearch_LineTruncation(t *testing.T) {
	svc, store, _, _ := testService(t)
	long := "needle " + strings.Repeat("x", 300)
	_ = store.Write("a.md", []byte(long))

	res, err := svc.Search(context.Background(), "needle", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := len([]rune(res.Matches[0].Text)); got != DefaultMaxLineLength {
		t.Errorf("text length = %d, want %d", got, DefaultMaxLineLength)
	}

	res, err = svc.Search(context.Background(), "needle", SearchOptions{MaxLineLength: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Matches[0].Text != "needle xxx" {
		t.Errorf("text = %q", res.Matches[0].Text)
	}
}

func TestSearch_ContextWindows(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("l1\nl2\nneedle\nl4\nl5"))

	res, err := svc.Search(context.Background(), "needle", SearchOptions{ContextLines: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ctx := res.Matches[0].Context
	if ctx == nil {
		t.Fatal("context missing")
	}
	if len(ctx.Before) != 2 || ctx.Before[0] != "l1" || ctx.Before[1] != "l2" {
		t.Errorf("before = %v", ctx.Before)
	}
	if len(ctx.After) != 2 || ctx.After[0] != "l4" || ctx.After[1] != "l5" {
		t.Errorf("after = %v", ctx.After)
	}
}

func TestSearch_ContextClampedAtBoundaries(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("needle\nonly line after"))

	res, err := svc.Search(context.Background(), "needle", SearchOptions{ContextLines: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ctx := res.Matches[0].Context
	if len(ctx.Before) != 0 {
		t.Errorf("before = %v, want empty", ctx.Before)
	}
	if len(ctx.After) != 1 || ctx.After[0] != "only line after" {
		t.Errorf("after = %v", ctx.After)
	}
}

func TestSearch_MaxResultsTruncation(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("hit\nhit\nhit\nhit\nhit"))

	res, err := svc.Search(context.Background(), "hit", SearchOptions{MaxResults: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 3 {
		t.Errorf("matches = %d, want 3", len(res.Matches))
	}
	if !res.Truncated {
		t.Error("truncated should be set when matches were cut off")
	}

	// Exactly at the cap: no truncation flag.
	res, err = svc.Search(context.Background(), "hit", SearchOptions{MaxResults: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Matches) != 5 || res.Truncated {
		t.Errorf("matches = %d truncated = %v, want 5 and false", len(res.Matches), res.Truncated)
	}
}

func TestSearch_OrderIsFileThenLine(t *testing.T) {
	svc, store, _, _ := testService(t)
	_ = store.Write("a.md", []byte("x\nhit"))
	_ = store.Write("b.md", []byte("hit\nx\nhit"))

	res, err := svc.Search(context.Background(), "hit", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	type pos struct {
		path string
		line int
	}
	want := []pos{{"a.md", 2}, {"b.md", 1}, {"b.md", 3}}
	if len(res.Matches) != len(want) {
		t.Fatalf("matches = %d, want %d", len(res.Matches), len(want))
	}
	for i, w := range want {
		if res.Matches[i].Path != w.path || res.Matches[i].Line != w.line {
			t.Errorf("match[%d] = %s:%d, want %s:%d", i, res.Matches[i].Path, res.Matches[i].Line, w.path, w.line)
		}
	}
}
