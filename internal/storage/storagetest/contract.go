// Package storagetest holds behaviour every storage.Adapter must share.
package storagetest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/storage"
	"jotter/pkg/platform/sentinel"
)

// Options toggles checks an adapter cannot honour.
type Options struct {
	// Ordered adapters must list records in first-insert order.
	Ordered bool
}

// Run exercises adapter against the storage.Adapter contract. Each subtest
// uses its own entity name so shared backends need no cleanup.
func Run(t *testing.T, adapter storage.Adapter, opts Options) {
	t.Helper()
	ctx := context.Background()

	newEntity := func() string {
		return "things_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	}
	doc := func(v string) storage.Document {
		raw, _ := json.Marshal(map[string]string{"v": v})
		return storage.Document{Data: raw}
	}

	t.Run("list of unknown entity is empty, not nil", func(t *testing.T) {
		docs, err := adapter.List(ctx, newEntity())
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("insert assigns fresh distinct ids", func(t *testing.T) {
		entity := newEntity()
		id1, err := adapter.Insert(ctx, entity, doc("one"))
		require.NoError(t, err)
		id2, err := adapter.Insert(ctx, entity, doc("one"))
		require.NoError(t, err)

		assert.NotEmpty(t, id1)
		assert.NotEqual(t, id1, id2)
		_, err = uuid.Parse(id1)
		assert.NoError(t, err)

		docs, err := adapter.List(ctx, entity)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("get returns stored payload", func(t *testing.T) {
		entity := newEntity()
		id, err := adapter.Insert(ctx, entity, doc("payload"))
		require.NoError(t, err)

		got, err := adapter.Get(ctx, entity, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.JSONEq(t, `{"v":"payload"}`, string(got.Data))
	})

	t.Run("get of missing id is not found", func(t *testing.T) {
		_, err := adapter.Get(ctx, newEntity(), "missing")
		assert.True(t, errors.Is(err, sentinel.ErrNotFound), "got %v", err)
	})

	t.Run("insert with id replaces in place", func(t *testing.T) {
		entity := newEntity()
		first, err := adapter.Insert(ctx, entity, doc("first"))
		require.NoError(t, err)
		_, err = adapter.Insert(ctx, entity, doc("second"))
		require.NoError(t, err)

		replaced := doc("updated")
		replaced.ID = first
		id, err := adapter.Insert(ctx, entity, replaced)
		require.NoError(t, err)
		assert.Equal(t, first, id)

		docs, err := adapter.List(ctx, entity)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		got, err := adapter.Get(ctx, entity, first)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":"updated"}`, string(got.Data))
		if opts.Ordered {
			assert.Equal(t, first, docs[0].ID)
		}
	})

	t.Run("insert with unknown id creates it", func(t *testing.T) {
		entity := newEntity()
		d := doc("natural key")
		d.ID = "a@x.com"
		id, err := adapter.Insert(ctx, entity, d)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", id)

		got, err := adapter.Get(ctx, entity, "a@x.com")
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":"natural key"}`, string(got.Data))
	})

	t.Run("delete reports affected count", func(t *testing.T) {
		entity := newEntity()
		id, err := adapter.Insert(ctx, entity, doc("doomed"))
		require.NoError(t, err)

		n, err := adapter.Delete(ctx, entity, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = adapter.Delete(ctx, entity, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		n, err = adapter.Delete(ctx, entity, "never-existed")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		docs, err := adapter.List(ctx, entity)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("entities are isolated", func(t *testing.T) {
		a, b := newEntity(), newEntity()
		id, err := adapter.Insert(ctx, a, doc("in a"))
		require.NoError(t, err)

		_, err = adapter.Get(ctx, b, id)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		n, err := adapter.Delete(ctx, b, id)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	if opts.Ordered {
		t.Run("list keeps insertion order", func(t *testing.T) {
			entity := newEntity()
			var want []string
			for _, v := range []string{"c", "a", "b"} {
				id, err := adapter.Insert(ctx, entity, doc(v))
				require.NoError(t, err)
				want = append(want, id)
			}
			docs, err := adapter.List(ctx, entity)
			require.NoError(t, err)
			got := make([]string, 0, len(docs))
			for _, d := range docs {
				got = append(got, d.ID)
			}
			assert.Equal(t, want, got)
		})
	}

	t.Run("invalid entity name", func(t *testing.T) {
		_, err := adapter.List(ctx, "")
		assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
		_, err = adapter.Insert(ctx, "a/b", doc("x"))
		assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
	})
}
