// Package ledger owns the ledger state and the only API allowed to change it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/storage"
	"github.com/shopspring/decimal"
)

// Validation and consistency errors.
var (
	ErrInvalidAmount    = model.ErrInvalidAmount
	ErrInvalidType      = errors.New("transaction type must be expense or income")
	ErrMissingCategory  = errors.New("category is required")
	ErrMissingName      = errors.New("category name is required")
	ErrNegativeBudget   = errors.New("category budget cannot be negative")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBalanceDrift     = errors.New("balance does not match transaction history")
)

// Repository persists ledger state. storage.StateRepository implements it.
type Repository interface {
	Load(ctx context.Context) model.LedgerState
	Save(ctx context.Context, state model.LedgerState, fields ...storage.Field) error
	Clear(ctx context.Context) error
}

// Store owns a LedgerState. Mutations are serialized and written through to
// the repository before they become visible; readers get deep-copied snapshots.
type Store struct {
	repo      Repository
	ids       IDAllocator
	clock     func() time.Time
	logger    *slog.Logger
	opening   *decimal.Decimal
	state     model.LedgerState
	subs      []subscription
	nextSubID int
	mu        sync.RWMutex
	subsMu    sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDAllocator replaces the default UUID allocator.
func WithIDAllocator(ids IDAllocator) Option {
	return func(s *Store) { s.ids = ids }
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithOpeningBalance seeds the opening balance of a ledger that has never
// recorded anything. It has no effect on a ledger with history.
func WithOpeningBalance(amount decimal.Decimal) Option {
	return func(s *Store) { s.opening = &amount }
}

// Open loads the persisted state from repo and returns a ready Store.
func Open(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:   repo,
		ids:    UUIDAllocator{},
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.state = repo.Load(ctx)

	if s.opening != nil && s.isPristine() && !s.opening.IsZero() {
		next := s.state.Clone()
		next.OpeningBalance = *s.opening
		next.Balance = *s.opening
		if err := repo.Save(ctx, next, storage.FieldOpeningBalance, storage.FieldBalance); err != nil {
			return nil, fmt.Errorf("failed to seed opening balance: %w", err)
		}
		s.state = next
		s.logger.Info("seeded opening balance", "amount", s.opening.String())
	}

	s.logger.Debug("ledger loaded",
		"transactions", len(s.state.Transactions),
		"categories", len(s.state.Categories),
		"balance", s.state.Balance.String())
	return s, nil
}

func (s *Store) isPristine() bool {
	return len(s.state.Transactions) == 0 && s.state.Balance.IsZero() && s.state.OpeningBalance.IsZero()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.LedgerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Balance returns the unassigned balance.
func (s *Store) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Balance
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Budgets derives the budget views for the current snapshot.
func (s *Store) Budgets(w budget.Window) []budget.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return budget.ComputeBudgetsInWindow(s.state.Transactions, s.state.Categories, w)
}

// Verify checks that the running balance equals the opening balance plus
// the net of every transaction.
func (s *Store) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	derived := aggregate.DerivedBalance(s.state.OpeningBalance, s.state.Transactions)
	if !derived.Equal(s.state.Balance) {
		return fmt.Errorf("%w: balance %s, derived %s", ErrBalanceDrift, s.state.Balance, derived)
	}
	return nil
}

// Reconcile replaces a drifted balance with the one derived from the
// opening balance and the transaction history. It reports whether the
// balance changed.
func (s *Store) Reconcile(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	derived := aggregate.DerivedBalance(s.state.OpeningBalance, s.state.Transactions)
	if derived.Equal(s.state.Balance) {
		return false, nil
	}

	stored := s.state.Balance
	next := s.state.Clone()
	next.Balance = derived
	if err := s.commit(ctx, next, storage.FieldBalance); err != nil {
		return false, err
	}

	s.logger.Info("reconciled balance with transaction history",
		"stored", stored.String(),
		"derived", derived.String())
	return true, nil
}

// commit persists the listed fields of next and then makes next current.
// The caller must hold s.mu for writing.
func (s *Store) commit(ctx context.Context, next model.LedgerState, fields ...storage.Field) error {
	if err := s.repo.Save(ctx, next, fields...); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	s.state = next
	return nil
}
