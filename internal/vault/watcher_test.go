package vault

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func watcherEnv(t *testing.T) (string, *recordingSink, context.CancelFunc) {
	t.Helper()
	root, _ := testutil.TestVault(t)
	sink := &recordingSink{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	go Watch(ctx, root, ".md", sink, logger)
	time.Sleep(100 * time.Millisecond)
	return root, sink, cancel
}

func hasEvent(sink *recordingSink, want string) func() bool {
	return func() bool {
		for _, e := range sink.all() {
			if e == want {
				return true
			}
		}
		return false
	}
}

func TestWatch_NewFileNotified(t *testing.T) {
	root, sink, cancel := watcherEnv(t)
	defer cancel()

	_ = os.WriteFile(filepath.Join(root, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:new.md"), "expected add:new.md notification")
}

func TestWatch_DeleteNotified(t *testing.T) {
	root, sink, cancel := watcherEnv(t)
	defer cancel()

	path := filepath.Join(root, "del.md")
	_ = os.WriteFile(path, []byte("# Delete Me"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:del.md"), "precondition: add:del.md")

	_ = os.Remove(path)
	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "unlink:del.md"), "expected unlink:del.md notification")
}

func TestWatch_NewDirWatched(t *testing.T) {
	root, sink, cancel := watcherEnv(t)
	defer cancel()

	subDir := filepath.Join(root, "subdir")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(200 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte("# Deep"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:subdir/deep.md"), "expected add for file in new subdir")
}

func TestWatch_RenameNotifiesOldPath(t *testing.T) {
	root, sink, cancel := watcherEnv(t)
	defer cancel()

	_ = os.WriteFile(filepath.Join(root, "old.md"), []byte("# Rename"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:old.md"), "precondition: add:old.md")

	_ = os.Rename(filepath.Join(root, "old.md"), filepath.Join(root, "renamed.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "unlink:old.md"), "expected unlink:old.md notification")
	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:renamed.md"), "expected add:renamed.md notification")
}

func TestWatch_IgnoresOtherExtensions(t *testing.T) {
	root, sink, cancel := watcherEnv(t)
	defer cancel()

	_ = os.WriteFile(filepath.Join(root, "ignore.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(root, "seen.md"), []byte("y"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond,
		hasEvent(sink, "add:seen.md"), "expected add:seen.md")
	for _, e := range sink.all() {
		if e == "add:ignore.txt" {
			t.Error("non-note file produced a notification")
		}
	}
}
