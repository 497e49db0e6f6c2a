package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LedgerState is the complete persisted state of a ledger.
// Transactions are kept most-recent-first; Categories keep user order.
type LedgerState struct {
	User           *UserProfile
	Transactions   []Transaction
	Categories     []CategoryDef
	Notifications  NotificationSettings
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
}

// DefaultState returns the state used when nothing has been persisted yet.
func DefaultState() LedgerState {
	return LedgerState{
		Transactions:   []Transaction{},
		Categories:     DefaultCategories(),
		Notifications:  DefaultNotifications(),
		Balance:        decimal.Zero,
		OpeningBalance: decimal.Zero,
	}
}

// Clone returns a deep copy so snapshots can be handed out safely.
func (s LedgerState) Clone() LedgerState {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Transactions = slices.Clone(s.Transactions)
	if out.Transactions == nil {
		out.Transactions = []Transaction{}
	}
	out.Categories = slices.Clone(s.Categories)
	if out.Categories == nil {
		out.Categories = []CategoryDef{}
	}
	return out
}
