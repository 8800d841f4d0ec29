package catalog

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
)

func TestFlatProduct(t *testing.T) {
	for _, price := range []int64{1, 4990, 50000} {
		p, err := NewFlatProduct(uuid.New(), "Игровая мышь", price)
		assert.NoError(t, err)
		assert.Equal(t, price, p.Price())
		assert.False(t, p.Special())
	}
}

func TestFlatProductRejectsBadInput(t *testing.T) {
	_, err := NewFlatProduct(uuid.New(), "Мышь", 0)
	assert.IsError(t, err, ErrInvalidInput)

	_, err = NewFlatProduct(uuid.New(), "Мышь", -5)
	assert.IsError(t, err, ErrInvalidInput)

	_, err = NewFlatProduct(uuid.New(), "   ", 100)
	assert.IsError(t, err, ErrInvalidInput)
}

func TestDiscountedProductPrice(t *testing.T) {
	tests := []struct {
		base     int64
		discount int
		want     int64
	}{
		{base: 7000, discount: 30, want: 4900},
		{base: 7000, discount: 0, want: 7000},
		{base: 7000, discount: 100, want: 0},
		{base: 999, discount: 33, want: 670},
	}
	for _, tt := range tests {
		p, err := NewDiscountedProduct(uuid.New(), "Механическая клавиатура", tt.base, tt.discount)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, p.Price())
		assert.True(t, p.Special())
	}
}

func TestDiscountedProductLargeBase(t *testing.T) {
	for _, base := range []int64{math.MaxInt64, math.MaxInt64 / 10, math.MaxInt64/100 + 1} {
		for _, d := range []int{1, 30, 99, 100} {
			p, err := NewDiscountedProduct(uuid.New(), "Сервер", base, d)
			assert.NoError(t, err)

			off := new(big.Int).Mul(big.NewInt(base), big.NewInt(int64(d)))
			off.Quo(off, big.NewInt(100))
			want := new(big.Int).Sub(big.NewInt(base), off).Int64()

			assert.Equal(t, want, p.Price(), "base=%d discount=%d", base, d)
		}
	}
}

func TestDiscountedProductRejectsBadInput(t *testing.T) {
	for _, d := range []int{-1, 101} {
		_, err := NewDiscountedProduct(uuid.New(), "Клавиатура", 7000, d)
		assert.IsError(t, err, ErrInvalidInput)
	}

	_, err := NewDiscountedProduct(uuid.New(), "Клавиатура", 0, 10)
	assert.IsError(t, err, ErrInvalidInput)

	_, err = NewDiscountedProduct(uuid.New(), "", 7000, 10)
	assert.IsError(t, err, ErrInvalidInput)
}

func TestFixedPriceProduct(t *testing.T) {
	p, err := NewFixedPriceProduct(uuid.New(), "Фиксированный товар", DefaultFixedPrice)
	assert.NoError(t, err)
	assert.Equal(t, DefaultFixedPrice, p.Price())
	assert.False(t, p.Special())

	_, err = NewFixedPriceProduct(uuid.New(), "Фиксированный товар", 0)
	assert.IsError(t, err, ErrInvalidInput)
}

func TestProductJSON(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	p, err := NewDiscountedProduct(id, "Клавиатура", 7000, 30)
	assert.NoError(t, err)

	raw, err := json.Marshal(p)
	assert.NoError(t, err)

	var got map[string]any
	assert.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]any{
		"id":      id.String(),
		"name":    "Клавиатура",
		"price":   float64(4900),
		"special": true,
	}, got)
}

func TestProductString(t *testing.T) {
	flat, _ := NewFlatProduct(uuid.New(), "Мышь", 5000)
	assert.Equal(t, "Мышь: 5000 руб.", flat.String())

	disc, _ := NewDiscountedProduct(uuid.New(), "Клавиатура", 7000, 30)
	assert.Equal(t, "Клавиатура: 4900 руб. (скидка 30%)", disc.String())
}
