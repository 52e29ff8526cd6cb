package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nutrilabel/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache(16, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "search:avocado", []byte(`[{"fdcId":1}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "search:avocado")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `[{"fdcId":1}]` {
		t.Errorf("Get() = %s, want cached value", got)
	}
}

func TestMemoryCache_MissForUnknownKey(t *testing.T) {
	c := NewMemoryCache(16, time.Minute)

	_, err := c.Get(context.Background(), "search:unknown")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_KeysAreCaseSensitive(t *testing.T) {
	c := NewMemoryCache(16, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "search:Avocado", []byte("upper"))

	if _, err := c.Get(ctx, "search:avocado"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() with different case error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache(16, 20*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "search:milk", []byte("value"))
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Get(ctx, "search:milk"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_EvictsWhenFull(t *testing.T) {
	c := NewMemoryCache(4, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		c.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v"))
	}

	if c.Len() > 4 {
		t.Errorf("Len() = %d, want at most 4", c.Len())
	}
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	c := NewMemoryCache(16, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "search:bread", []byte("value"))

	ok, err := c.Exists(ctx, "search:bread")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v, want true, nil", ok, err)
	}

	if err := c.Delete(ctx, "search:bread"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	ok, _ = c.Exists(ctx, "search:bread")
	if ok {
		t.Error("Exists() after Delete = true, want false")
	}
}
