package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder tracks how many times the upstream service is hit.
type countingEmbedder struct {
	calls int64
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	atomic.AddInt64(&e.calls, 1)
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestCachedEmbedder_Memoizes(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, 16)
	ctx := context.Background()

	first, err := cached.Embed(ctx, "chicken breast")
	require.NoError(t, err)

	second, err := cached.Embed(ctx, "chicken breast")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&inner.calls))
	assert.Equal(t, 1, cached.Len())
}

func TestCachedEmbedder_DistinctTexts(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, 16)
	ctx := context.Background()

	_, err := cached.Embed(ctx, "salmon")
	require.NoError(t, err)
	_, err = cached.Embed(ctx, "Salmon")
	require.NoError(t, err)

	// Keys are exact text, case-sensitive.
	assert.Equal(t, int64(2), atomic.LoadInt64(&inner.calls))
}

func TestCachedEmbedder_ErrorsNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("upstream down")}
	cached := NewCachedEmbedder(inner, 16)
	ctx := context.Background()

	_, err := cached.Embed(ctx, "avocado")
	require.Error(t, err)

	inner.err = nil
	vec, err := cached.Embed(ctx, "avocado")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}

func TestCachedEmbedder_ConcurrentSameText(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbedder(inner, 16)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.Embed(ctx, "greek yogurt")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Concurrent misses collapse into one upstream call.
	assert.Equal(t, int64(1), atomic.LoadInt64(&inner.calls))
}
