package insight

import (
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "123,45", want: "123.45", ok: true},
		{input: "1.234,56", want: "1234.56", ok: true},
		{input: "1,234.56", want: "1234.56", ok: true},
		{input: "1.250", want: "1250", ok: true},
		{input: "12.5", want: "12.5", ok: true},
		{input: "*118,00", want: "118", ok: true},
		{input: "₺1.850,00", want: "1850", ok: true},
		{input: "99,90 TL", want: "99.9", ok: true},
		{input: "2 500,00", want: "2500", ok: true},
		{input: "", ok: false},
		{input: "abc", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizeAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseReceiptDate(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)

	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{input: "2026-10-14T12:05:00Z", want: time.Date(2026, 10, 14, 12, 5, 0, 0, time.UTC), ok: true},
		{input: "2026-10-14", want: time.Date(2026, 10, 14, 0, 0, 0, 0, loc), ok: true},
		{input: "14.10.2026", want: time.Date(2026, 10, 14, 0, 0, 0, 0, loc), ok: true},
		{input: "14/10/2026", want: time.Date(2026, 10, 14, 0, 0, 0, 0, loc), ok: true},
		{input: "", ok: false},
		{input: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseReceiptDate(tt.input, loc)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			}
		})
	}
}

func TestReceiptNormalize(t *testing.T) {
	cats := []model.CategoryDef{{ID: "yemek"}, {ID: "c-1"}}
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	r := &Receipt{CategoryID: "c-1", StoreName: "  Fırın  "}
	r.normalize(cats, now)
	assert.Equal(t, "c-1", r.CategoryID)
	assert.Equal(t, now, r.Date)
	assert.Equal(t, "Fırın", r.StoreName)

	r = &Receipt{CategoryID: "", Date: now.AddDate(0, 0, -1)}
	r.normalize(cats, now)
	assert.Equal(t, model.UncategorizedID, r.CategoryID)
	assert.Equal(t, now.AddDate(0, 0, -1), r.Date)
}
