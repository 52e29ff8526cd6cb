package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutrilabel/backend/internal/domain"
)

func TestPebbleCache_SetAndGet(t *testing.T) {
	c, err := NewPebbleCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewPebbleCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "search:avocado", []byte(`[{"fdcId":171705}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "search:avocado")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `[{"fdcId":171705}]` {
		t.Errorf("Get() = %s, want stored value", got)
	}
}

func TestPebbleCache_MissForUnknownKey(t *testing.T) {
	c, err := NewPebbleCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewPebbleCache() error = %v", err)
	}
	defer c.Close()

	_, err = c.Get(context.Background(), "search:unknown")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestPebbleCache_ExpiredEntryIsMiss(t *testing.T) {
	c, err := NewPebbleCache(t.TempDir(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewPebbleCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "search:milk", []byte("value"))
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "search:milk"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

func TestPebbleCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewPebbleCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewPebbleCache() error = %v", err)
	}
	if err := c.Set(ctx, "search:salmon", []byte("persisted")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewPebbleCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "search:salmon")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get() after reopen = %s, want persisted", got)
	}
}
