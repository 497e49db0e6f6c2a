package testutil

import (
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// DraftBuilder builds transaction drafts fluently.
type DraftBuilder struct {
	draft model.TransactionDraft
}

// Expense starts an expense draft. amount uses '.' as the decimal separator.
func Expense(amount, category string) *DraftBuilder {
	return &DraftBuilder{draft: model.TransactionDraft{
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Type:     model.TypeExpense,
		Date:     Now,
	}}
}

// Income starts an income draft.
func Income(amount, category string) *DraftBuilder {
	b := Expense(amount, category)
	b.draft.Type = model.TypeIncome
	return b
}

// On sets the transaction date.
func (b *DraftBuilder) On(date time.Time) *DraftBuilder {
	b.draft.Date = date
	return b
}

// DaysAgo dates the draft n days before Now.
func (b *DraftBuilder) DaysAgo(n int) *DraftBuilder {
	return b.On(Now.AddDate(0, 0, -n))
}

// Note sets the free-text note.
func (b *DraftBuilder) Note(note string) *DraftBuilder {
	b.draft.Note = note
	return b
}

// Build returns the draft.
func (b *DraftBuilder) Build() model.TransactionDraft {
	return b.draft
}
