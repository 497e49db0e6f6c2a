package budget

import (
	"sort"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// Share is one slice of the spending breakdown.
type Share struct {
	Category   model.CategoryDef
	Value      decimal.Decimal
	Percentage int64
}

// Breakdown groups all expenses by category, largest first. Categories that
// no longer exist are resolved to a placeholder rather than dropped.
func Breakdown(transactions []model.Transaction, categories []model.CategoryDef) []Share {
	totals := make(map[string]decimal.Decimal)
	var order []string
	total := decimal.Zero

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		total = total.Add(tx.Amount)
	}

	shares := make([]Share, 0, len(order))
	for _, id := range order {
		value := totals[id]
		var pct int64
		if total.IsPositive() {
			pct = value.Div(total).Mul(hundred).Round(0).IntPart()
		}
		shares = append(shares, Share{
			Category:   model.ResolveCategory(categories, id),
			Value:      value,
			Percentage: pct,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Value.GreaterThan(shares[j].Value)
	})
	return shares
}
