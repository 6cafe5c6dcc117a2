package services_test

import (
	"context"
	"testing"

	"pizzaria/internal/cart"
	"pizzaria/internal/models"
	"pizzaria/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.carts.Get(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Empty())

	c, coke, err := f.carts.AddProduct(ctx, c.ID, f.ids.coke.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ItemDrink, coke.Type)
	assert.Equal(t, 2, coke.Quantity)

	c, brownie, err := f.carts.AddProduct(ctx, c.ID, f.ids.brownie.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ItemOther, brownie.Type)
	assert.Equal(t, 1, brownie.Quantity)

	assert.Equal(t, 3, c.Count())
	assert.True(t, c.Total().Equal(decimal.RequireFromString("31.5")))

	_, _, err = f.carts.AddProduct(ctx, c.ID, f.ids.calabresa.ID, 1)
	assert.ErrorIs(t, err, services.ErrNotOrderable)

	// The cart survives a reload from the store.
	reloaded, err := f.carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Items, reloaded.Items)
}

func TestCartService_QuantityAndRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, line, err := f.carts.AddProduct(ctx, "cart-1", f.ids.guarana.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", c.ID)

	c, err = f.carts.UpdateQuantity(ctx, c.ID, line.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())

	c, err = f.carts.UpdateQuantity(ctx, c.ID, line.ID, 0)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	_, err = f.carts.Remove(ctx, c.ID, line.ID)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	c, _, err = f.carts.AddProduct(ctx, c.ID, f.ids.guarana.ID, 1)
	require.NoError(t, err)
	c, _, err = f.carts.AddProduct(ctx, c.ID, f.ids.guarana.ID, 1)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2, "identical lines are never merged")

	c, err = f.carts.Clear(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
