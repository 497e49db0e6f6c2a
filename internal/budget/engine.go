// Package budget derives per-category spending figures from the transaction log.
package budget

import (
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// View is the derived budget position of a single category.
type View struct {
	Category  model.CategoryDef
	Spent     decimal.Decimal
	Available decimal.Decimal
	Percent   decimal.Decimal
}

// OverBudget reports whether spending exceeded the category ceiling.
func (v View) OverBudget() bool {
	return v.Available.IsNegative()
}

// Window restricts which transactions count towards a budget.
// The zero Window matches the entire history.
type Window struct {
	Start time.Time
	End   time.Time
}

// AllTime is the window matching every transaction.
var AllTime = Window{}

// MonthWindow returns the calendar month containing ref, in ref's location.
func MonthWindow(ref time.Time) Window {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls in [Start, End). Unset bounds are open.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// ComputeBudgets returns one view per category, in category order, measured
// against the whole transaction history.
func ComputeBudgets(transactions []model.Transaction, categories []model.CategoryDef) []View {
	return ComputeBudgetsInWindow(transactions, categories, AllTime)
}

// ComputeBudgetsInWindow is ComputeBudgets restricted to transactions inside w.
func ComputeBudgetsInWindow(transactions []model.Transaction, categories []model.CategoryDef, w Window) []View {
	spent := spentByCategory(transactions, w)

	views := make([]View, 0, len(categories))
	for _, cat := range categories {
		views = append(views, newView(cat, spent[cat.ID]))
	}
	return views
}

// RemainingFor returns how much of cat's budget is left across all history.
func RemainingFor(transactions []model.Transaction, cat model.CategoryDef) decimal.Decimal {
	return newView(cat, spentByCategory(transactions, AllTime)[cat.ID]).Available
}

func spentByCategory(transactions []model.Transaction, w Window) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsExpense() || !w.Contains(tx.Date) {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}
	return spent
}

func newView(cat model.CategoryDef, spent decimal.Decimal) View {
	return View{
		Category:  cat,
		Spent:     spent,
		Available: cat.InitialBudget.Sub(spent),
		Percent:   percentUsed(spent, cat.InitialBudget),
	}
}

// percentUsed is spent/budget*100 clamped to [0, 100]; a non-positive budget yields 0.
func percentUsed(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	p := spent.Div(budget).Mul(hundred)
	switch {
	case p.IsNegative():
		return decimal.Zero
	case p.GreaterThan(hundred):
		return hundred
	default:
		return p
	}
}
