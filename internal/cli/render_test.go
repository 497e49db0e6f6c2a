package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "₺0,00"},
		{in: "5", want: "₺5,00"},
		{in: "12.5", want: "₺12,50"},
		{in: "999.999", want: "₺1.000,00"},
		{in: "1850", want: "₺1.850,00"},
		{in: "1234567.891", want: "₺1.234.567,89"},
		{in: "-300", want: "-₺300,00"},
		{in: "-4500.5", want: "-₺4.500,50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		ratio  string
		filled int
	}{
		{ratio: "0", filled: 0},
		{ratio: "0.5", filled: 5},
		{ratio: "1", filled: 10},
		{ratio: "1.7", filled: 10},
		{ratio: "-0.2", filled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.ratio, func(t *testing.T) {
			got := bar(decimal.RequireFromString(tt.ratio), 10)
			assert.Equal(t, tt.filled, strings.Count(got, "█"))
			assert.Equal(t, 10-tt.filled, strings.Count(got, "░"))
		})
	}
}

func TestRenderBudgets(t *testing.T) {
	cats := []model.CategoryDef{
		{ID: "yemek", Name: "Yemek", Icon: "🍴", InitialBudget: decimal.NewFromInt(1200)},
		{ID: "kira", Name: "Kira", InitialBudget: decimal.NewFromInt(2500)},
	}
	txs := []model.Transaction{
		{ID: "1", Type: model.TypeExpense, Category: "yemek", Amount: decimal.NewFromInt(1500)},
	}

	out := RenderBudgets(budget.ComputeBudgets(txs, cats))
	assert.Contains(t, out, "Yemek")
	assert.Contains(t, out, "₺1.500,00")
	assert.Contains(t, out, "-₺300,00")
	assert.Contains(t, out, "₺2.500,00")

	assert.Contains(t, RenderBudgets(nil), "No categories")
}

func TestRenderTransactions(t *testing.T) {
	txs := []model.Transaction{
		{ID: "1", Type: model.TypeIncome, Category: "maas", Amount: decimal.NewFromInt(5000), Date: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Type: model.TypeExpense, Category: "deleted", Amount: decimal.NewFromInt(40), Note: "simit", Date: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
	}

	out := RenderTransactions(txs, model.DefaultCategories(), time.UTC)
	assert.Contains(t, out, "01.10.2026")
	assert.Contains(t, out, "Maaş")
	assert.Contains(t, out, "+₺5.000,00")
	assert.Contains(t, out, "-₺40,00")
	assert.Contains(t, out, "simit")
	assert.Contains(t, out, "deleted", "orphaned category keeps its id")

	assert.Contains(t, RenderTransactions(nil, nil, time.UTC), "No transactions")
}

func TestRenderWeekly(t *testing.T) {
	today := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: "1", Type: model.TypeExpense, Category: "yemek", Amount: decimal.NewFromInt(100), Date: today},
	}

	out := RenderWeekly(aggregate.WeeklySeries(txs, today))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, aggregate.WeekLength)
	assert.Contains(t, lines[6], "Cum")
	assert.Contains(t, lines[6], "₺100,00")
	assert.Equal(t, barWidth, strings.Count(lines[6], "█"))
}

func TestRenderCalendar(t *testing.T) {
	month := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	activity := map[aggregate.Day]aggregate.Activity{
		{Year: 2026, Month: time.October, Day: 5}: {HasExpense: true},
	}

	out := RenderCalendar(month, activity, aggregate.Day{Year: 2026, Month: time.October, Day: 16})
	assert.Contains(t, out, "Ekim 2026")
	assert.Contains(t, out, "Pzt")
	assert.Contains(t, out, "31")
	assert.Contains(t, out, "•")
	// Header plus five weeks: October 2026 starts on a Thursday.
	assert.Len(t, strings.Split(out, "\n"), 7)
}

func TestRenderBreakdown(t *testing.T) {
	shares := []budget.Share{
		{Category: model.CategoryDef{ID: "kira", Name: "Kira"}, Value: decimal.NewFromInt(750), Percentage: 75},
		{Category: model.CategoryDef{ID: "yemek", Name: "Yemek"}, Value: decimal.NewFromInt(250), Percentage: 25},
	}

	out := RenderBreakdown(shares)
	assert.Contains(t, out, "%75")
	assert.Contains(t, out, "₺750,00")
	assert.Contains(t, RenderBreakdown(nil), "No expenses")
}

func TestRenderProfile(t *testing.T) {
	out := RenderProfile(&model.UserProfile{FirstName: "Ayşe", LastName: "Yılmaz", Email: "ayse@example.com"}, model.DefaultNotifications())
	assert.Contains(t, out, "Ayşe Yılmaz")
	assert.Contains(t, out, "20:00")

	assert.Contains(t, RenderProfile(nil, model.NotificationSettings{}), "No profile set")
}
