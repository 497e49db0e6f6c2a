// Package testutil provides ledger fixtures for tests: an isolated store
// backed by in-memory SQLite, a fixed clock and deterministic ids.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/storage"
)

// Now is the fixed instant every TestLedger clock returns.
var Now = time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)

// TestLedger bundles a store with the storage it persists to.
type TestLedger struct {
	Store   *ledger.Store
	Storage *storage.SQLiteStorage
	Repo    *storage.StateRepository
	t       *testing.T
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupLedger opens a fresh ledger on an in-memory database. Extra options
// are applied after the defaults (fixed clock, "tx-N" ids, quiet logger).
//
// Example:
//
//	tl := testutil.SetupLedger(t, ledger.WithOpeningBalance(decimal.NewFromInt(5000)))
//	tl.MustAdd(testutil.Expense("120", "yemek").Build())
func SetupLedger(t *testing.T, opts ...ledger.Option) *TestLedger {
	t.Helper()

	db, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	repo := storage.NewStateRepository(db, QuietLogger())
	base := []ledger.Option{
		ledger.WithClock(func() time.Time { return Now }),
		ledger.WithIDAllocator(&ledger.SequenceAllocator{Prefix: "tx"}),
		ledger.WithLogger(QuietLogger()),
	}
	store, err := ledger.Open(ctx, repo, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	return &TestLedger{Store: store, Storage: db, Repo: repo, t: t}
}

// MustAdd commits draft or fails the test.
func (tl *TestLedger) MustAdd(draft model.TransactionDraft) model.Transaction {
	tl.t.Helper()
	tx, err := tl.Store.AddTransaction(context.Background(), draft)
	if err != nil {
		tl.t.Fatalf("failed to add transaction: %v", err)
	}
	return tx
}

// Reload opens a second store over the same database, as a restart would.
func (tl *TestLedger) Reload(opts ...ledger.Option) *ledger.Store {
	tl.t.Helper()
	base := []ledger.Option{
		ledger.WithClock(func() time.Time { return Now }),
		ledger.WithLogger(QuietLogger()),
	}
	store, err := ledger.Open(context.Background(), tl.Repo, append(base, opts...)...)
	if err != nil {
		tl.t.Fatalf("failed to reopen ledger: %v", err)
	}
	return store
}
