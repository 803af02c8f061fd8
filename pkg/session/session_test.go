package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOnce(t *testing.T) {
	s := New(DefaultTTL)
	if !s.Once(FlagShare) {
		t.Fatal("first Once(share) = false, want true")
	}
	if s.Once(FlagShare) {
		t.Error("second Once(share) = true, want false")
	}
	if !s.Seen(FlagShare) {
		t.Error("Seen(share) = false after Once")
	}
	if s.Seen(FlagFeedback) {
		t.Error("Seen(feedback) = true, want false")
	}
	if !s.Once(FlagFeedback) {
		t.Error("flags should be independent")
	}
}

func TestNilSession(t *testing.T) {
	var s *Session
	if s.Once(FlagShare) || s.Seen(FlagShare) {
		t.Error("nil session should never fire")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a, b := New(DefaultTTL), New(DefaultTTL)
	if a.ID == b.ID {
		t.Fatal("sessions share an ID")
	}
	a.Once(FlagShare)
	if !b.Once(FlagShare) {
		t.Error("flag leaked between sessions")
	}
}

func TestIsExpired(t *testing.T) {
	s := New(time.Hour)
	now := s.CreatedAt
	s.now = func() time.Time { return now }
	if s.IsExpired() {
		t.Error("fresh session expired")
	}
	now = now.Add(2 * time.Hour)
	if !s.IsExpired() {
		t.Error("session not expired after its TTL")
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess, err := Current(ctx, store, DefaultTTL)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if sess.ID != CurrentID {
		t.Errorf("ID = %q, want %q", sess.ID, CurrentID)
	}
	sess.Once(FlagShare)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	again, err := Current(ctx, store, DefaultTTL)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if again.Once(FlagShare) {
		t.Error("flag not persisted across loads")
	}

	if err := store.Delete(ctx, CurrentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	fresh, _ := Current(ctx, store, DefaultTTL)
	if !fresh.Once(FlagShare) {
		t.Error("deleted session still remembered its flags")
	}
}

func TestFileStoreExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	old := New(-time.Hour)
	if err := store.Set(ctx, old); err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get(ctx, old.ID); got != nil || err != nil {
		t.Errorf("expired Get = %v, %v; want nil, nil", got, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get(ctx, "bad"); got != nil || err != nil {
		t.Errorf("corrupt Get = %v, %v; want nil, nil", got, err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}
