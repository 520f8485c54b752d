package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15.745", "15.75"},
		{"15.744", "15.74"},
		{"2.675", "2.68"},
		{"0.005", "0.01"},
		{"100", "100.00"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		m, err := FromString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.String(), "round %s", tt.in)
	}
}

func TestMarshalJSONFixedTwoDecimals(t *testing.T) {
	m := FromFloat(105)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"105.00"`, string(data))
}

func TestUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"33.00"`), &m))
	assert.Equal(t, "33.00", m.String())

	// Bare numbers are accepted too
	require.NoError(t, json.Unmarshal([]byte(`19.99`), &m))
	assert.Equal(t, "19.99", m.String())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestArithmetic(t *testing.T) {
	price := FromFloat(29.99)
	assert.Equal(t, "89.97", price.MulInt(3).String())
	assert.Equal(t, "39.99", price.Add(FromFloat(10)).String())
	assert.Equal(t, "15.75", New(decimal.NewFromFloat(0.15).Mul(decimal.NewFromInt(105))).String())
}
