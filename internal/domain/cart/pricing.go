// internal/domain/cart/pricing.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// Free shipping applies once the merchandise subtotal exceeds this amount.
var freeShippingThreshold = decimal.NewFromInt(100)

var (
	flatShippingRate = decimal.NewFromInt(10)
	taxRate          = decimal.NewFromFloat(0.15)
)

// Prices holds the computed price breakdown for a cart or order
type Prices struct {
	ItemsPrice    money.Money `json:"items_price"`
	ShippingPrice money.Money `json:"shipping_price"`
	TaxPrice      money.Money `json:"tax_price"`
	TotalPrice    money.Money `json:"total_price"`
}

// CalcPrices computes the price breakdown for a set of cart items.
// Shipping is free above the threshold, otherwise a flat rate; tax is
// applied to the merchandise subtotal only
func CalcPrices(items []CartItem) Prices {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	itemsPrice := money.New(subtotal)

	shipping := flatShippingRate
	if itemsPrice.Decimal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	shippingPrice := money.New(shipping)

	taxPrice := money.New(taxRate.Mul(itemsPrice.Decimal))

	totalPrice := money.New(itemsPrice.Decimal.
		Add(shippingPrice.Decimal).
		Add(taxPrice.Decimal))

	return Prices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TaxPrice:      taxPrice,
		TotalPrice:    totalPrice,
	}
}

// addOne adds one unit of the given line to items. An existing line for
// the same product is incremented, otherwise a new line with qty 1 is
// appended
func addOne(items []CartItem, line CartItem) []CartItem {
	for i := range items {
		if items[i].ProductID == line.ProductID {
			items[i].Qty++
			return items
		}
	}
	line.Qty = 1
	return append(items, line)
}

// removeOne removes one unit of the product from items. A line at qty 1
// is dropped entirely. Returns the updated items and whether the product
// was found
func removeOne(items []CartItem, productID uint) ([]CartItem, bool) {
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if items[i].Qty > 1 {
			items[i].Qty--
			return items, true
		}
		return append(items[:i], items[i+1:]...), true
	}
	return items, false
}
