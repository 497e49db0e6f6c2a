package budget

import (
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown(t *testing.T) {
	day := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	cats := model.DefaultCategories()

	txs := []model.Transaction{
		expense("yemek", 100, day),
		expense("kira", 300, day),
		expense("removed", 100, day),
		income("maas", 5000, day),
	}

	shares := Breakdown(txs, cats)
	require.Len(t, shares, 3)

	assert.Equal(t, "kira", shares[0].Category.ID)
	assert.Equal(t, int64(60), shares[0].Percentage)
	assert.Equal(t, "yemek", shares[1].Category.ID)
	assert.Equal(t, int64(20), shares[1].Percentage)
	assert.Equal(t, "removed", shares[2].Category.ID)
	assert.Equal(t, "removed", shares[2].Category.Name)
}

func TestBreakdownEmpty(t *testing.T) {
	assert.Empty(t, Breakdown(nil, model.DefaultCategories()))
}
