package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDContext(t *testing.T) {
	_, ok := getRunID(context.Background())
	assert.False(t, ok, "Plain context carries no run")

	ctx := withRunID(context.Background(), 12345)
	runID, ok := getRunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(12345), runID)

	wrongType := context.WithValue(context.Background(), runIDKey, "12345")
	_, ok = getRunID(wrongType)
	assert.False(t, ok)
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(context.Background(), 42)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, ok)
			assert.Equal(t, int64(42), runID)
		})
	}
	wg.Wait()
}
