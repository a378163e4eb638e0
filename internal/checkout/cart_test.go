package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Name: "Cement 50kg", UnitPrice: 1000, Qty: 2},
	}

	s := Summarize(lines, 500)

	assert.Equal(t, int64(2000), s.Subtotal)
	assert.Equal(t, int64(500), s.Shipping)
	assert.Equal(t, int64(2500), s.Total)
}

func TestSummarize_MultipleLines(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, UnitPrice: 1200, Qty: 3},
		{ProductID: 2, UnitPrice: 450, Qty: 10},
		{ProductID: 3, UnitPrice: 80000, Qty: 1},
	}

	s := Summarize(lines, 500)

	assert.Equal(t, int64(3600+4500+80000), s.Subtotal)
	assert.Equal(t, s.Subtotal+500, s.Total)
}

func TestSummarize_EmptyCart(t *testing.T) {
	s := Summarize(nil, 500)

	assert.Equal(t, int64(0), s.Subtotal)
	assert.Equal(t, int64(500), s.Total)
}

func TestNormalizeCart_DropsRemovedLines(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, UnitPrice: 100, Qty: 2},
		{ProductID: 2, UnitPrice: 200, Qty: 0},
		{ProductID: 3, UnitPrice: 300, Qty: -1},
	}

	out := NormalizeCart(lines)

	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ProductID)
}
