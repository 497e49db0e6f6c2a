// Package model defines the core data types shared across the ledger.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money left or entered the ledger.
type TransactionType string

const (
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "expense"
	// TypeIncome represents money received.
	TypeIncome TransactionType = "income"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseTransactionType converts user input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single committed income or expense entry.
// Transactions are create-only; they are removed only by a full data reset.
type Transaction struct {
	Date     time.Time       `json:"date"`
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Note     string          `json:"note,omitempty"`
	// ImportHash identifies the statement line an imported transaction
	// came from. Empty for manual entries.
	ImportHash string          `json:"importHash,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// IsExpense reports whether the transaction counts against budgets.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// SignedAmount returns the effect of the transaction on the unassigned balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionDraft carries the fields a caller supplies when adding a transaction.
// A zero Date means "now" at the time the draft is committed.
type TransactionDraft struct {
	Date       time.Time
	Category   string
	Type       TransactionType
	Note       string
	ImportHash string
	Amount     decimal.Decimal
}

// Build turns the draft into a Transaction with the given id.
func (d TransactionDraft) Build(id string, now time.Time) Transaction {
	date := d.Date
	if date.IsZero() {
		date = now
	}
	return Transaction{
		ID:         id,
		Amount:     d.Amount,
		Category:   d.Category,
		Date:       date,
		Type:       d.Type,
		Note:       d.Note,
		ImportHash: d.ImportHash,
	}
}
