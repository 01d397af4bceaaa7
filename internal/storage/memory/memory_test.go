package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/storage"
	"jotter/internal/storage/storagetest"
)

func TestAdapterContract(t *testing.T) {
	storagetest.Run(t, New(), storagetest.Options{Ordered: true})
}

func TestStoredBytesAreCopied(t *testing.T) {
	a := New()
	ctx := context.Background()
	data := []byte(`{"v":"x"}`)

	id, err := a.Insert(ctx, "notes", storage.Document{Data: data})
	require.NoError(t, err)
	data[6] = 'y'

	got, err := a.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"x"}`, string(got.Data))
}

func TestConcurrentInserts(t *testing.T) {
	a := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_, _ = a.Insert(ctx, "notes", storage.Document{Data: []byte(`{}`)})
		})
	}
	wg.Wait()

	docs, err := a.List(ctx, "notes")
	require.NoError(t, err)
	assert.Len(t, docs, 50)
}
