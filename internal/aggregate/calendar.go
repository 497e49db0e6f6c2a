package aggregate

import (
	"time"

	"github.com/Veraticus/parayon/internal/model"
)

// Activity flags which kinds of transactions happened on a day.
type Activity struct {
	HasExpense bool
	HasIncome  bool
}

// Any reports whether the day had any transaction.
func (a Activity) Any() bool {
	return a.HasExpense || a.HasIncome
}

// DayActivity reports the activity flags for day. Transaction dates are
// converted to loc before comparing.
func DayActivity(transactions []model.Transaction, day Day, loc *time.Location) Activity {
	var a Activity
	for _, tx := range transactions {
		if DayOf(tx.Date, loc) != day {
			continue
		}
		switch tx.Type {
		case model.TypeExpense:
			a.HasExpense = true
		case model.TypeIncome:
			a.HasIncome = true
		}
		if a.HasExpense && a.HasIncome {
			break
		}
	}
	return a
}

// TransactionsOnDay returns the transactions dated on day, in list order.
func TransactionsOnDay(transactions []model.Transaction, day Day, loc *time.Location) []model.Transaction {
	out := []model.Transaction{}
	for _, tx := range transactions {
		if DayOf(tx.Date, loc) == day {
			out = append(out, tx)
		}
	}
	return out
}

// MonthActivity computes DayActivity for every day of month in a single pass.
func MonthActivity(transactions []model.Transaction, month time.Time) map[Day]Activity {
	loc := month.Location()
	out := make(map[Day]Activity)
	for _, tx := range transactions {
		d := DayOf(tx.Date, loc)
		if d.Year != month.Year() || d.Month != month.Month() {
			continue
		}
		a := out[d]
		switch tx.Type {
		case model.TypeExpense:
			a.HasExpense = true
		case model.TypeIncome:
			a.HasIncome = true
		}
		out[d] = a
	}
	return out
}

// CalendarGrid lays out month as Monday-first weeks. Leading nil slots pad
// the first row so day 1 sits under its weekday column; the last row is
// not padded.
func CalendarGrid(month time.Time) []*Day {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// time.Weekday is Sunday=0; shift so Monday=0.
	offset := (int(first.Weekday()) + 6) % 7

	grid := make([]*Day, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		grid = append(grid, nil)
	}
	for d := 1; d <= daysInMonth; d++ {
		grid = append(grid, &Day{Year: first.Year(), Month: first.Month(), Day: d})
	}
	return grid
}
