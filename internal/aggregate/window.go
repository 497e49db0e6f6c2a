package aggregate

import (
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// WeekLength is the number of buckets in a weekly series.
const WeekLength = 7

// Bucket is one day of a weekly expense series.
type Bucket struct {
	Label string
	Value decimal.Decimal
	Date  Day
}

// WeeklySeries returns seven daily expense buckets, oldest first, ending on
// today's calendar day. Days without expenses have a zero value.
func WeeklySeries(transactions []model.Transaction, today time.Time) [WeekLength]Bucket {
	loc := today.Location()
	last := DayOf(today, loc)

	var series [WeekLength]Bucket
	index := make(map[Day]int, WeekLength)
	for i := range series {
		d := last.AddDays(i - (WeekLength - 1))
		series[i] = Bucket{Date: d, Label: WeekdayLabel(d.Weekday()), Value: decimal.Zero}
		index[d] = i
	}

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		if i, ok := index[DayOf(tx.Date, loc)]; ok {
			series[i].Value = series[i].Value.Add(tx.Amount)
		}
	}
	return series
}

// MonthlyExpenseTotal sums expenses dated inside month's calendar month, up
// to and including now. For the current month this is month-to-date; for a
// past month it is the full month; for a future month it is zero.
func MonthlyExpenseTotal(transactions []model.Transaction, month, now time.Time) decimal.Decimal {
	loc := month.Location()
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	total := decimal.Zero
	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) || tx.Date.After(now) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// MonthToDateExpense is MonthlyExpenseTotal for the month containing now.
func MonthToDateExpense(transactions []model.Transaction, now time.Time) decimal.Decimal {
	return MonthlyExpenseTotal(transactions, now, now)
}

// Summary holds lifetime income and expense totals.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns income minus expense.
func (s Summary) Net() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Totals sums every transaction by type.
func Totals(transactions []model.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range transactions {
		switch tx.Type {
		case model.TypeIncome:
			s.Income = s.Income.Add(tx.Amount)
		case model.TypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	return s
}

// DerivedBalance recomputes the unassigned balance from scratch.
func DerivedBalance(opening decimal.Decimal, transactions []model.Transaction) decimal.Decimal {
	return opening.Add(Totals(transactions).Net())
}
