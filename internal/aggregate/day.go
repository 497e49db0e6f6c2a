// Package aggregate derives time-windowed views of the transaction log:
// weekly series, monthly totals, per-day buckets and calendar grids.
//
// Calendar days are always evaluated in the location of the reference time
// passed in, so the same transaction lands on the same day in every view.
package aggregate

import (
	"fmt"
	"time"
)

// Day is a calendar date without a time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Start(time.UTC).AddDate(0, 0, n), time.UTC)
}

// Weekday returns the day of the week for d.
func (d Day) Weekday() time.Weekday {
	return d.Start(time.UTC).Weekday()
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// shortWeekdays are the Turkish short labels indexed by time.Weekday.
var shortWeekdays = [7]string{"Paz", "Pzt", "Sal", "Çar", "Per", "Cum", "Cmt"}

// WeekdayLabel returns the short display label for wd.
func WeekdayLabel(wd time.Weekday) string {
	return shortWeekdays[wd]
}
