package database

import (
	"context"
	"testing"

	"go-food-ordering/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCartStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCartStore()
	tenant, user := primitive.NewObjectID(), primitive.NewObjectID()

	cart, err := store.Get(ctx, tenant, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, tenant, cart.TenantID)

	cart.SetLine(models.CartLine{RestaurantID: primitive.NewObjectID(), ItemID: primitive.NewObjectID(), Name: "pho", Quantity: 2, Price: 11})
	require.NoError(t, store.Save(ctx, cart))

	stored, err := store.Get(ctx, tenant, user)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, "pho", stored.Lines[0].Name)
	assert.False(t, stored.UpdatedAt.IsZero())

	other, err := store.Get(ctx, primitive.NewObjectID(), user)
	require.NoError(t, err)
	assert.Empty(t, other.Lines)

	require.NoError(t, store.Delete(ctx, tenant, user))
	cleared, err := store.Get(ctx, tenant, user)
	require.NoError(t, err)
	assert.Empty(t, cleared.Lines)
}

func TestCartKeyIsScopedByTenant(t *testing.T) {
	user := primitive.NewObjectID()
	assert.NotEqual(t, cartKey(primitive.NewObjectID(), user), cartKey(primitive.NewObjectID(), user))
}
