package kv_test

import (
	"context"
	"testing"

	"github.com/JocaCola1972/LevelUP-Connect/internal/database"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every Store implementation that does not need a server.
func backends(t *testing.T) map[string]kv.Store {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return map[string]kv.Store{
		"memory": kv.NewMemory(),
		"sql":    kv.NewSQL(db),
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, kv.KeyPlayers)
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, store.Set(ctx, kv.KeyPlayers, []byte("first")))
			got, err := store.Get(ctx, kv.KeyPlayers)
			require.NoError(t, err)
			assert.Equal(t, []byte("first"), got)

			// Set replaces the whole value
			require.NoError(t, store.Set(ctx, kv.KeyPlayers, []byte("second")))
			got, err = store.Get(ctx, kv.KeyPlayers)
			require.NoError(t, err)
			assert.Equal(t, []byte("second"), got)

			require.NoError(t, store.Remove(ctx, kv.KeyPlayers))
			_, err = store.Get(ctx, kv.KeyPlayers)
			assert.ErrorIs(t, err, kv.ErrNotFound)

			// Removing an absent key is not an error
			require.NoError(t, store.Remove(ctx, kv.KeyLoggedPlayer))
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	type record struct {
		ID    string   `msgpack:"id"`
		Items []string `msgpack:"items"`
	}
	ctx := context.Background()
	store := kv.NewMemory()

	var out record
	found, err := kv.Load(ctx, store, kv.KeyBookings, &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := record{ID: "b1", Items: []string{"a", "b"}}
	require.NoError(t, kv.Save(ctx, store, kv.KeyBookings, in))

	found, err = kv.Load(ctx, store, kv.KeyBookings, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestLoad_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, kv.KeyPlayers, []byte{0xc1}))

	var out []string
	_, err := kv.Load(ctx, store, kv.KeyPlayers, &out)
	assert.Error(t, err)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestOpen(t *testing.T) {
	s, teardown, err := kv.Open(kv.Options{Backend: "memory"})
	require.NoError(t, err)
	teardown()
	assert.IsType(t, &kv.Memory{}, s)

	s, teardown, err = kv.Open(kv.Options{Backend: "sql", DBName: ":memory:"})
	require.NoError(t, err)
	defer teardown()
	require.NoError(t, s.Set(context.Background(), kv.KeyBookings, []byte("x")))

	_, _, err = kv.Open(kv.Options{Backend: "etcd"})
	assert.Error(t, err)
}
