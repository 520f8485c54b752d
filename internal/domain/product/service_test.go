package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "polo-sporting-shirt", GenerateSlug("Polo Sporting Shirt"))
	assert.Equal(t, "levi-s-501-jeans", GenerateSlug("Levi's 501 Jeans"))
	assert.Equal(t, "plain-name", GenerateSlug("  Plain Name  "))
	assert.Equal(t, "trailing", GenerateSlug("Trailing!!!"))
}

func TestParsePriceRange(t *testing.T) {
	low, high, ok := ParsePriceRange("51-100")
	assert.True(t, ok)
	assert.Equal(t, "51", low)
	assert.Equal(t, "100", high)

	low, high, ok = ParsePriceRange("1.50-99.99")
	assert.True(t, ok)
	assert.Equal(t, "1.50", low)
	assert.Equal(t, "99.99", high)

	_, _, ok = ParsePriceRange("all")
	assert.False(t, ok)

	_, _, ok = ParsePriceRange("51-")
	assert.False(t, ok)
}

func TestBuildOrderClause(t *testing.T) {
	assert.Equal(t, "price ASC", buildOrderClause("lowest"))
	assert.Equal(t, "price DESC", buildOrderClause("highest"))
	assert.Equal(t, "rating DESC", buildOrderClause("rating"))
	assert.Equal(t, "created_at DESC", buildOrderClause("newest"))
	assert.Equal(t, "created_at DESC", buildOrderClause(""))
	assert.Equal(t, "created_at DESC", buildOrderClause("garbage"))
}

func TestProductInStock(t *testing.T) {
	p := Product{Stock: 3}
	assert.True(t, p.InStock(1))
	assert.True(t, p.InStock(3))
	assert.False(t, p.InStock(4))
}

func TestPrimaryImage(t *testing.T) {
	assert.Equal(t, "", (&Product{}).PrimaryImage())
	assert.Equal(t, "/images/p1.jpg", (&Product{Images: []string{"/images/p1.jpg", "/images/p2.jpg"}}).PrimaryImage())
}
