package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage is an in-memory Storage used in place of Redis.
type memoryStorage struct {
	data map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestStoreSurvivesReload(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	store := NewStore(storage)

	_, err := store.Add(ctx, "sess-1", ModeCart, standUpPouch(500))
	require.NoError(t, err)

	// A fresh Store over the same mirror sees the same cart.
	reloaded := NewStore(storage)
	items, err := reloaded.Items(ctx, "sess-1", ModeCart)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 500, items[0].Quantity)
}

func TestStoreModesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryStorage())

	_, err := store.Add(ctx, "sess-1", ModeCart, standUpPouch(500))
	require.NoError(t, err)

	rfqItems, err := store.Items(ctx, "sess-1", ModeRFQ)
	require.NoError(t, err)
	assert.Empty(t, rfqItems)

	require.NoError(t, store.Clear(ctx, "sess-1", ModeRFQ))
	cartItems, err := store.Items(ctx, "sess-1", ModeCart)
	require.NoError(t, err)
	assert.Len(t, cartItems, 1)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryStorage())

	_, err := store.Add(ctx, "sess-1", ModeCart, standUpPouch(500))
	require.NoError(t, err)

	items, err := store.Items(ctx, "sess-2", ModeCart)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreCorruptPayloadResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.data["cart:sess-1"] = []byte("{not json")
	store := NewStore(storage)

	items, err := store.Items(ctx, "sess-1", ModeCart)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreUIDefaultsAndMode(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryStorage())

	state, err := store.UI(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, ModeCart, state.ActiveMode)
	assert.False(t, state.IsOpen)

	require.NoError(t, store.SetMode(ctx, "sess-1", ModeRFQ))
	state, err = store.UI(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, ModeRFQ, state.ActiveMode)
}

func TestStoreAddOpensSidebarWithoutSwitchingMode(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryStorage())

	require.NoError(t, store.SetMode(ctx, "sess-1", ModeRFQ))

	// Adding to the purchase cart opens the sidebar but leaves the RFQ
	// collection active.
	_, err := store.Add(ctx, "sess-1", ModeCart, standUpPouch(500))
	require.NoError(t, err)

	state, err := store.UI(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.Equal(t, ModeRFQ, state.ActiveMode)

	require.NoError(t, store.SetOpen(ctx, "sess-1", false))
	state, err = store.UI(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
}
