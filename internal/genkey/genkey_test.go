package genkey_test

import (
	"context"
	"sync"
	"testing"

	"parishtasks/internal/genkey"
	"parishtasks/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	assert.Equal(t, "sunday:2026-01-04:prep:bulletin", genkey.Build(model.OriginSunday, "2026-01-04", "prep", "bulletin"))
	assert.Equal(t, "operations:weekly-2026-01-05:list:deposit", genkey.Build(model.OriginOperations, "weekly-2026-01-05", "", "deposit"))
}

func TestSetReserveOnce(t *testing.T) {
	ctx := context.Background()
	set := genkey.NewSet()

	ok, err := set.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = set.Reserve(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	set.Release("k")
	assert.False(t, set.Has("k"))
	ok, _ = set.Reserve(ctx, "k")
	assert.True(t, ok)
}

func TestSetConcurrentReserve(t *testing.T) {
	set := genkey.NewSet()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := set.Reserve(context.Background(), "same")
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, set.Len())
}
