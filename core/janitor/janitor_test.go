package janitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFileAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSweep_RemovesStaleKeepsFresh(t *testing.T) {
	dir := t.TempDir()
	stale := writeFileAged(t, dir, "stale.mp3", 25*time.Hour)
	fresh := writeFileAged(t, dir, "fresh.mp3", time.Hour)

	j := New(dir, 24*time.Hour, 30*time.Minute)
	if removed := j.Sweep(); removed != 1 {
		t.Fatalf("Sweep() removed %d files, want 1", removed)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file still present: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file was removed: %v", err)
	}
}

func TestSweep_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keepdir")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(sub, old, old); err != nil {
		t.Fatal(err)
	}

	j := New(dir, 24*time.Hour, 30*time.Minute)
	if removed := j.Sweep(); removed != 0 {
		t.Fatalf("Sweep() removed %d, want 0", removed)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Fatalf("directory was removed: %v", err)
	}
}

func TestSweep_MissingDirectoryIsSwallowed(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "does-not-exist"), 24*time.Hour, 30*time.Minute)
	if removed := j.Sweep(); removed != 0 {
		t.Fatalf("Sweep() removed %d from a missing directory", removed)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	j := New(t.TempDir(), 24*time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}
}
