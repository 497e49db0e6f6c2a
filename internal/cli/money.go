package cli

import (
	"strings"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the Turkish way: "₺1.234,56".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "₺" + b.String() + "," + frac
}

// FormatSigned renders a transaction amount with its direction, coloured
// green for income and red for expenses.
func FormatSigned(tx model.Transaction) string {
	if tx.IsIncome() {
		return SuccessStyle.Render("+" + FormatMoney(tx.Amount))
	}
	return ErrorStyle.Render("-" + FormatMoney(tx.Amount))
}
