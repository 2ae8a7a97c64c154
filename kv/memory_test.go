package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "1" {
		t.Errorf("Get = %q, want %q", got, "1")
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v, want ErrNotFound", err)
	}
	// deleting a missing key is fine
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))

	_ = s.Put(ctx, "short", []byte("x"), 10*time.Minute)
	_ = s.Put(ctx, "forever", []byte("y"), 0)

	clock.Advance(9 * time.Minute)
	if _, err := s.Get(ctx, "short"); err != nil {
		t.Fatalf("Get before expiry error: %v", err)
	}

	clock.Advance(time.Minute)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get at expiry err = %v, want ErrNotFound", err)
	}

	clock.Advance(24 * time.Hour)
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("Get without ttl error: %v", err)
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Put(ctx, "k", buf, 0)
	buf[0] = 'z'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value mutated: %q", got)
	}
}
