package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const barWidth = 20

var (
	nameColumn   = lipgloss.NewStyle().Width(18)
	amountColumn = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
	dateColumn   = lipgloss.NewStyle().Width(12)
	cellStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Right)
	todayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// bar draws a horizontal gauge of width cells filled to ratio (0..1).
func bar(ratio decimal.Decimal, width int) string {
	if ratio.IsNegative() {
		ratio = decimal.Zero
	}
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	filled := int(ratio.Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func categoryLabel(c model.CategoryDef) string {
	if c.Icon == "" {
		return c.Name
	}
	return c.Icon + " " + c.Name
}

// RenderBalance shows the unassigned balance with lifetime totals.
func RenderBalance(balance decimal.Decimal, totals aggregate.Summary) string {
	style := SuccessStyle
	if balance.IsNegative() {
		style = ErrorStyle
	}
	lines := []string{
		BoldStyle.Render("Balance: ") + style.Render(FormatMoney(balance)),
		SubtleStyle.Render("Income:  ") + SuccessStyle.Render(FormatMoney(totals.Income)),
		SubtleStyle.Render("Expense: ") + ErrorStyle.Render(FormatMoney(totals.Expense)),
	}
	return strings.Join(lines, "\n")
}

// RenderBudgets draws one gauge per category.
func RenderBudgets(views []budget.View) string {
	if len(views) == 0 {
		return SubtleStyle.Render("No categories.")
	}

	header := TableHeaderStyle.Render(
		nameColumn.Render("Category") + amountColumn.Render("Spent") + amountColumn.Render("Budget") +
			"  " + lipgloss.NewStyle().Width(barWidth+2).Render("") + amountColumn.Render("Remaining"))
	rows := []string{header}

	for _, v := range views {
		style := SuccessStyle
		switch {
		case v.OverBudget():
			style = ErrorStyle
		case v.Percent.GreaterThanOrEqual(decimal.NewFromInt(80)):
			style = WarningStyle
		}

		ratio := decimal.Zero
		if v.Category.InitialBudget.IsPositive() {
			ratio = v.Spent.Div(v.Category.InitialBudget)
		} else if v.Spent.IsPositive() {
			ratio = decimal.NewFromInt(1)
		}

		row := nameColumn.Render(categoryLabel(v.Category)) +
			amountColumn.Render(FormatMoney(v.Spent)) +
			amountColumn.Render(FormatMoney(v.Category.InitialBudget)) +
			"  " + style.Render(bar(ratio, barWidth)) + "  " +
			amountColumn.Render(style.Render(FormatMoney(v.Available)))
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// RenderTransactions lists transactions with their resolved categories.
func RenderTransactions(txs []model.Transaction, categories []model.CategoryDef, loc *time.Location) string {
	if len(txs) == 0 {
		return SubtleStyle.Render("No transactions.")
	}

	rows := make([]string, 0, len(txs))
	for _, tx := range txs {
		cat := model.ResolveCategory(categories, tx.Category)
		row := dateColumn.Render(tx.Date.In(loc).Format("02.01.2006")) +
			nameColumn.Render(categoryLabel(cat)) +
			amountColumn.Render(FormatSigned(tx))
		if tx.Note != "" {
			row += "  " + SubtleStyle.Render(tx.Note)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// RenderWeekly draws the seven-day expense series as horizontal bars
// scaled to the busiest day.
func RenderWeekly(series [aggregate.WeekLength]aggregate.Bucket) string {
	peak := decimal.Zero
	for _, b := range series {
		peak = decimal.Max(peak, b.Value)
	}

	rows := make([]string, 0, len(series))
	for _, b := range series {
		ratio := decimal.Zero
		if peak.IsPositive() {
			ratio = b.Value.Div(peak)
		}
		rows = append(rows, lipgloss.NewStyle().Width(5).Render(b.Label)+
			ErrorStyle.Render(bar(ratio, barWidth))+
			amountColumn.Render(FormatMoney(b.Value)))
	}
	return strings.Join(rows, "\n")
}

// RenderCalendar draws a Monday-first month grid. Days with expenses carry
// a red dot, days with income a green one.
func RenderCalendar(month time.Time, activity map[aggregate.Day]aggregate.Activity, today aggregate.Day) string {
	var b strings.Builder
	b.WriteString(TitleStyle.UnsetMargins().Render(fmt.Sprintf("%s %d", turkishMonths[month.Month()-1], month.Year())))
	b.WriteString("\n")

	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		b.WriteString(TableHeaderStyle.Inherit(cellStyle).Render(aggregate.WeekdayLabel(wd)))
	}

	for i, d := range aggregate.CalendarGrid(month) {
		if i%7 == 0 {
			b.WriteString("\n")
		}
		if d == nil {
			b.WriteString(cellStyle.Render(""))
			continue
		}

		marker := " "
		a := activity[*d]
		switch {
		case a.HasExpense && a.HasIncome:
			marker = WarningStyle.Render("•")
		case a.HasExpense:
			marker = ErrorStyle.Render("•")
		case a.HasIncome:
			marker = SuccessStyle.Render("•")
		}

		num := fmt.Sprintf("%d", d.Day)
		if *d == today {
			num = todayStyle.Render(num)
		}
		b.WriteString(cellStyle.Render(num + marker))
	}
	return b.String()
}

var turkishMonths = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// RenderBreakdown lists spending shares, largest first.
func RenderBreakdown(shares []budget.Share) string {
	if len(shares) == 0 {
		return SubtleStyle.Render("No expenses yet.")
	}

	rows := make([]string, 0, len(shares))
	for _, s := range shares {
		ratio := decimal.NewFromInt(s.Percentage).Div(decimal.NewFromInt(100))
		rows = append(rows, nameColumn.Render(categoryLabel(s.Category))+
			InfoStyle.Render(bar(ratio, barWidth))+
			lipgloss.NewStyle().Width(6).Align(lipgloss.Right).Render(fmt.Sprintf("%%%d", s.Percentage))+
			amountColumn.Render(FormatMoney(s.Value)))
	}
	return strings.Join(rows, "\n")
}

// RenderProfile shows the user profile and notification settings.
func RenderProfile(user *model.UserProfile, n model.NotificationSettings) string {
	var lines []string
	if user == nil {
		lines = append(lines, SubtleStyle.Render("No profile set."))
	} else {
		lines = append(lines,
			BoldStyle.Render("Name:  ")+user.FullName(),
			BoldStyle.Render("Email: ")+user.Email)
	}

	onOff := func(b bool) string {
		if b {
			return SuccessStyle.Render("on")
		}
		return SubtleStyle.Render("off")
	}
	lines = append(lines, "",
		BoldStyle.Render("Daily reminders: ")+onOff(n.DailyReminders)+SubtleStyle.Render(" at "+n.ReminderTime),
		BoldStyle.Render("Budget alerts:   ")+onOff(n.BudgetAlerts),
		BoldStyle.Render("AI insights:     ")+onOff(n.AIInsights))
	return strings.Join(lines, "\n")
}
