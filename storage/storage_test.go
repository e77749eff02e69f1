package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newStore(t *testing.T, retention time.Duration) (*Store, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store, err := New(filepath.Join(t.TempDir(), "audio"), retention, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store, hook
}

func TestAcquireRelease(t *testing.T) {
	store, _ := newStore(t, time.Minute)

	dir, err := store.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if filepath.Dir(dir.Path) != store.Root() {
		t.Errorf("work dir %s not under %s", dir.Path, store.Root())
	}

	file := filepath.Join(dir.Path, "Song.mp3")
	if err := os.WriteFile(file, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := dir.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(dir.Path); !os.IsNotExist(err) {
		t.Errorf("expected work dir to be removed, stat err = %v", err)
	}
	if err := dir.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}

	other, err := store.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer other.Release()
	if other.Path == dir.Path {
		t.Error("work dirs must be unique")
	}
}

func age(t *testing.T, path string, d time.Duration) {
	t.Helper()
	old := time.Now().Add(-d)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
}

func TestSweep(t *testing.T) {
	store, _ := newStore(t, 30*time.Minute)

	busy, err := store.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Release()
	age(t, busy.Path, time.Hour)

	expired := filepath.Join(store.Root(), "left-behind")
	if err := os.MkdirAll(filepath.Join(expired, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	age(t, expired, time.Hour)

	stray := filepath.Join(store.Root(), "Old Song.mp3")
	if err := os.WriteFile(stray, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	age(t, stray, 2*time.Hour)

	fresh := filepath.Join(store.Root(), "fresh")
	if err := os.Mkdir(fresh, 0755); err != nil {
		t.Fatal(err)
	}

	if got := store.Sweep(time.Now()); got != 2 {
		t.Errorf("Sweep() removed %d entries, want 2", got)
	}

	for path, wantExists := range map[string]bool{
		busy.Path: true,
		fresh:     true,
		expired:   false,
		stray:     false,
	} {
		_, err := os.Stat(path)
		if exists := err == nil; exists != wantExists {
			t.Errorf("%s exists = %v, want %v", filepath.Base(path), exists, wantExists)
		}
	}
}

func TestSweepWarningIsThrottled(t *testing.T) {
	store, hook := newStore(t, time.Minute)
	if err := os.RemoveAll(store.Root()); err != nil {
		t.Fatal(err)
	}

	store.Sweep(time.Now())
	store.Sweep(time.Now())
	store.Sweep(time.Now())

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("expected 1 warning, got %d", warnings)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store, _ := newStore(t, time.Nanosecond)

	expired := filepath.Join(store.Root(), "expired")
	if err := os.Mkdir(expired, 0755); err != nil {
		t.Fatal(err)
	}
	age(t, expired, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(expired); os.IsNotExist(err) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expired entry was not swept")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
