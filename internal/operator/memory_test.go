package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "orderflow/pkg/domain-errors"
)

func TestInMemoryStore_FindByIDAndShop(t *testing.T) {
	store := NewInMemoryStore()
	store.AddGroup(&Group{ID: "grp-1", ShopID: "shop-1", Name: "fulfillment manager"})

	t.Run("found", func(t *testing.T) {
		group, err := store.FindByIDAndShop(context.Background(), "grp-1", "shop-1")
		require.NoError(t, err)
		assert.Equal(t, "fulfillment manager", group.Name)
	})

	t.Run("wrong shop", func(t *testing.T) {
		_, err := store.FindByIDAndShop(context.Background(), "grp-1", "shop-2")
		assert.ErrorIs(t, err, ErrGroupNotFound)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := store.FindByIDAndShop(context.Background(), "grp-9", "shop-1")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestInMemoryStore_FindByIDInGroup(t *testing.T) {
	store := NewInMemoryStore()
	store.AddAccount(&Account{ID: "acc-1", GroupIDs: []string{"grp-1", "grp-2"}})

	t.Run("member", func(t *testing.T) {
		account, err := store.FindByIDInGroup(context.Background(), "acc-1", "grp-2")
		require.NoError(t, err)
		assert.Equal(t, "acc-1", account.ID)
	})

	t.Run("not a member", func(t *testing.T) {
		_, err := store.FindByIDInGroup(context.Background(), "acc-1", "grp-3")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := store.FindByIDInGroup(context.Background(), "acc-9", "grp-1")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("copy does not alias", func(t *testing.T) {
		account, err := store.FindByIDInGroup(context.Background(), "acc-1", "grp-1")
		require.NoError(t, err)
		account.GroupIDs[0] = "mutated"

		again, err := store.FindByIDInGroup(context.Background(), "acc-1", "grp-1")
		require.NoError(t, err)
		assert.Equal(t, "grp-1", again.GroupIDs[0])
	})
}
