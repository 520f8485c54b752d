package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

func item(productID uint, price string, qty int) CartItem {
	p, _ := money.FromString(price)
	return CartItem{ProductID: productID, Name: "p", Slug: "p", Price: p, Qty: qty}
}

func TestCalcPricesAboveFreeShippingThreshold(t *testing.T) {
	prices := CalcPrices([]CartItem{
		item(1, "52.50", 2),
	})

	assert.Equal(t, "105.00", prices.ItemsPrice.String())
	assert.Equal(t, "0.00", prices.ShippingPrice.String())
	assert.Equal(t, "15.75", prices.TaxPrice.String())
	assert.Equal(t, "120.75", prices.TotalPrice.String())
}

func TestCalcPricesBelowFreeShippingThreshold(t *testing.T) {
	prices := CalcPrices([]CartItem{
		item(1, "20.00", 1),
	})

	assert.Equal(t, "20.00", prices.ItemsPrice.String())
	assert.Equal(t, "10.00", prices.ShippingPrice.String())
	assert.Equal(t, "3.00", prices.TaxPrice.String())
	assert.Equal(t, "33.00", prices.TotalPrice.String())
}

func TestCalcPricesAtExactlyOneHundred(t *testing.T) {
	// Free shipping requires strictly more than 100
	prices := CalcPrices([]CartItem{
		item(1, "100.00", 1),
	})

	assert.Equal(t, "100.00", prices.ItemsPrice.String())
	assert.Equal(t, "10.00", prices.ShippingPrice.String())
	assert.Equal(t, "15.00", prices.TaxPrice.String())
	assert.Equal(t, "125.00", prices.TotalPrice.String())
}

func TestCalcPricesRoundsTaxHalfUp(t *testing.T) {
	// 15% of 83.50 = 12.525, rounds to 12.53
	prices := CalcPrices([]CartItem{
		item(1, "83.50", 1),
	})

	assert.Equal(t, "12.53", prices.TaxPrice.String())
}

func TestAddOneIncrementsExistingLine(t *testing.T) {
	items := []CartItem{item(1, "9.99", 2)}
	items = addOne(items, item(1, "9.99", 0))

	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Qty)
}

func TestAddOneAppendsNewLine(t *testing.T) {
	items := []CartItem{item(1, "9.99", 1)}
	items = addOne(items, item(2, "5.00", 0))

	assert.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Qty)
}

func TestRemoveOneDecrementsLine(t *testing.T) {
	items := []CartItem{item(1, "9.99", 2)}
	items, found := removeOne(items, 1)

	assert.True(t, found)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
}

func TestRemoveOneDropsLineAtQtyOne(t *testing.T) {
	items := []CartItem{item(1, "9.99", 1), item(2, "5.00", 1)}
	items, found := removeOne(items, 1)

	assert.True(t, found)
	assert.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].ProductID)
}

func TestRemoveOneMissingProduct(t *testing.T) {
	items := []CartItem{item(1, "9.99", 1)}
	_, found := removeOne(items, 99)

	assert.False(t, found)
}

func TestCartHelpers(t *testing.T) {
	c := Cart{Items: []CartItem{item(1, "9.99", 2), item(2, "5.00", 1)}}

	assert.False(t, c.IsEmpty())
	assert.Equal(t, 3, c.ItemCount())
	assert.NotNil(t, c.FindItem(2))
	assert.Nil(t, c.FindItem(3))
}
