package apperr

import (
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("scan failed: %w", New(KindNotFound, "read a.md: not found"))
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", KindOf(err))
	}
}

func TestKindOf_Plain(t *testing.T) {
	if KindOf(fmt.Errorf("boom")) != KindUnknown {
		t.Error("plain error should map to KindUnknown")
	}
}

func TestFromOS_NotExist(t *testing.T) {
	e := FromOS(fs.ErrNotExist, "read", "missing.md")
	if e.Kind != KindNotFound {
		t.Errorf("kind = %v, want KindNotFound", e.Kind)
	}
	if e.Message != "read missing.md: not found" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestFromOS_Permission(t *testing.T) {
	e := FromOS(fs.ErrPermission, "write", "locked.md")
	if e.Kind != KindPermissionDenied {
		t.Errorf("kind = %v, want KindPermissionDenied", e.Kind)
	}
}

func TestFromOS_Other(t *testing.T) {
	e := FromOS(fmt.Errorf("disk full"), "write", "big.md")
	if e.Kind != KindIO {
		t.Errorf("kind = %v, want KindIO", e.Kind)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindInvalidArgument:  "invalid_argument",
		KindNotFound:         "not_found",
		KindAlreadyExists:    "already_exists",
		KindPermissionDenied: "permission_denied",
		KindConflict:         "conflict",
		KindIO:               "io_error",
		KindUnknown:          "unknown",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
