package insight

import (
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrosReceipt = `
MIGROS TICARET A.S.
ATASEHIR SUBE
TARIH: 14.10.2026   SAAT: 19:42
SUT 1L              *34,50
EKMEK               *15,00
ELMA KG             *62,75
TOPKDV              *11,22
TOPLAM             *112,25
NAKIT              *200,00
`

func TestParseReceiptText(t *testing.T) {
	cats := model.DefaultCategories()

	r, err := ParseReceiptText(migrosReceipt, cats, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "112.25", r.Amount.String())
	assert.Equal(t, "MIGROS TICARET A.S.", r.StoreName)
	assert.Equal(t, "yemek", r.CategoryID)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), r.Date)
}

func TestParseReceiptText_Fallbacks(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		cats         []model.CategoryDef
		wantAmount   string
		wantCategory string
		wantErr      bool
	}{
		{
			name:         "largest amount when no total label",
			text:         "OPET AKARYAKIT\nBENZIN 45,10 LT\n1.250,00\n",
			cats:         model.DefaultCategories(),
			wantAmount:   "1250",
			wantCategory: "ulasim",
		},
		{
			name:         "category name match wins",
			text:         "SPOR SALONU\nToplam: 400,00",
			cats:         []model.CategoryDef{{ID: "c-1", Name: "Spor"}},
			wantAmount:   "400",
			wantCategory: "c-1",
		},
		{
			name:         "keyword category missing from list",
			text:         "TEKNOSA\nTOPLAM 999,00",
			cats:         []model.CategoryDef{{ID: "yemek", Name: "Yemek"}},
			wantAmount:   "999",
			wantCategory: model.UncategorizedID,
		},
		{
			name:    "no amount",
			text:    "TESEKKUR EDERIZ",
			cats:    model.DefaultCategories(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseReceiptText(tt.text, tt.cats, time.UTC)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, r.Amount.String())
			assert.Equal(t, tt.wantCategory, r.CategoryID)
			assert.True(t, r.Date.IsZero())
		})
	}
}
