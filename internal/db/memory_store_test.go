package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(tickingClock()))

	id, err := s.Add(ctx, "things", map[string]any{"name": "a", "createdAt": ServerTimestamp})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Data["name"])
	assert.IsType(t, time.Time{}, doc.Data["createdAt"])

	require.NoError(t, s.Update(ctx, "things", id, map[string]any{"name": "b"}))
	doc, err = s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Data["name"])

	require.NoError(t, s.Update(ctx, "things", id, map[string]any{"name": DeleteField}))
	doc, err = s.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.NotContains(t, doc.Data, "name")

	require.NoError(t, s.Delete(ctx, "things", id))
	_, err = s.Get(ctx, "things", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "things", "nope", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetMerge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "things", "x", map[string]any{"a": 1, "b": 2}, false))
	require.NoError(t, s.Set(ctx, "things", "x", map[string]any{"b": 3}, true))
	doc, err := s.Get(ctx, "things", "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, doc.Data)

	require.NoError(t, s.Set(ctx, "things", "x", map[string]any{"c": 4}, false))
	doc, err = s.Get(ctx, "things", "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"c": 4}, doc.Data)
}

func TestMemoryStore_GetManySkipsMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "things", "a", map[string]any{}, false))
	require.NoError(t, s.Set(ctx, "things", "c", map[string]any{}, false))

	docs, err := s.GetMany(ctx, "things", []string{"c", "b", "a"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
}

func TestMemoryStore_FindOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithClock(tickingClock()))
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, "things", map[string]any{"name": name, "owner": "u1", "createdAt": ServerTimestamp})
		require.NoError(t, err)
	}
	_, err := s.Add(ctx, "things", map[string]any{"name": "undated", "owner": "u1"})
	require.NoError(t, err)

	docs, err := s.Find(ctx, "things", Query{OrderBy: "createdAt", Desc: true})
	require.NoError(t, err)
	require.Len(t, docs, 3, "documents without the order field are excluded")
	assert.Equal(t, "third", docs[0].Data["name"])
	assert.Equal(t, "first", docs[2].Data["name"])

	docs, err = s.Find(ctx, "things", Query{Where: []Filter{{Field: "owner", Value: "u1"}}})
	require.NoError(t, err)
	assert.Len(t, docs, 4)
}

func TestMemoryStore_MissingIndex(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithMissingIndex("things"))

	_, err := s.Find(ctx, "things", Query{OrderBy: "createdAt"})
	assert.ErrorIs(t, err, ErrFailedPrecondition)

	err = s.Watch(ctx, "things", Query{OrderBy: "createdAt"}, func([]*Doc) {})
	assert.ErrorIs(t, err, ErrFailedPrecondition)

	_, err = s.Find(ctx, "things", Query{})
	assert.NoError(t, err)
}

func TestMemoryStore_ArrayUnionConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "users", "u1", map[string]any{"projects": []string{}}, false))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, "users", "u1", map[string]any{"projects": ArrayUnion(fmt.Sprintf("p%d", i))}))
		}(i)
	}
	wg.Wait()

	require.NoError(t, s.Update(ctx, "users", "u1", map[string]any{"projects": ArrayUnion("p0")}))

	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Len(t, doc.Data["projects"], 50)
}

func TestMemoryStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a", "1", map[string]any{}, false))
	require.NoError(t, s.Set(ctx, "b", "2", map[string]any{}, false))
	require.NoError(t, s.Set(ctx, "b", "3", map[string]any{}, false))

	require.NoError(t, s.DeleteAll(ctx, []Ref{{Collection: "a", ID: "1"}, {Collection: "b", ID: "2"}}))
	assert.Equal(t, 0, s.Len("a"))
	assert.Equal(t, 1, s.Len("b"))
}

func TestMemoryStore_WatchDeliversEverySnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewMemoryStore()

	snapshots := make(chan []*Doc, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, "things", Query{}, func(docs []*Doc) { snapshots <- docs })
	}()

	first := <-snapshots
	assert.Empty(t, first)

	require.NoError(t, s.Set(ctx, "things", "x", map[string]any{"v": 1}, false))
	require.NoError(t, s.Update(ctx, "things", "x", map[string]any{"v": 2}))
	require.NoError(t, s.Update(ctx, "things", "x", map[string]any{"v": 3}))

	for want := 1; want <= 3; want++ {
		select {
		case snap := <-snapshots:
			require.Len(t, snap, 1)
			assert.Equal(t, want, snap[0].Data["v"])
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot %d", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestMemoryStore_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().Get(ctx, "things", "x")
	assert.True(t, errors.Is(err, context.Canceled))
}
