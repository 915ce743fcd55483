package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "CurrencyPrefs", "history_list")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "CurrencyPrefs", "history_list", "[]"))
	require.NoError(t, store.Put(ctx, "Other", "history_list", "{}"))

	value, err := store.Get(ctx, "CurrencyPrefs", "history_list")
	require.NoError(t, err)
	require.Equal(t, "[]", value)

	require.NoError(t, store.Put(ctx, "CurrencyPrefs", "history_list", "[1]"))

	value, err = store.Get(ctx, "CurrencyPrefs", "history_list")
	require.NoError(t, err)
	require.Equal(t, "[1]", value)
}
