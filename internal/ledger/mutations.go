package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/storage"
	"github.com/shopspring/decimal"
)

func validateDraft(d model.TransactionDraft) error {
	if !d.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, d.Amount)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

func validateCategory(name string, budget decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	if budget.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeBudget, budget)
	}
	return nil
}

// AddTransaction commits a new transaction at the head of the list and
// moves the balance by its signed amount. Invalid drafts leave the ledger
// untouched.
func (s *Store) AddTransaction(ctx context.Context, draft model.TransactionDraft) (model.Transaction, error) {
	if err := validateDraft(draft); err != nil {
		return model.Transaction{}, err
	}
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Note = strings.TrimSpace(draft.Note)

	s.mu.Lock()
	tx := draft.Build(s.ids.NewID(), s.clock())

	next := s.state.Clone()
	next.Transactions = append([]model.Transaction{tx}, next.Transactions...)
	next.Balance = next.Balance.Add(tx.SignedAmount())

	if err := s.commit(ctx, next, storage.FieldTransactions, storage.FieldBalance); err != nil {
		s.mu.Unlock()
		return model.Transaction{}, err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Debug("transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"balance", snapshot.Balance.String())
	s.publish(Event{Kind: EventTransactionAdded, Transactions: []model.Transaction{tx}, Snapshot: snapshot})
	return tx, nil
}

// ImportResult reports the outcome of Import.
type ImportResult struct {
	Added      []model.Transaction
	Duplicates int
}

// Import commits a batch of drafts in one write. The batch is rejected as a
// whole if any draft is invalid. Drafts whose ImportHash is already in the
// history, or earlier in the batch, are skipped. Imported transactions are
// ordered newest first ahead of the existing history.
func (s *Store) Import(ctx context.Context, drafts []model.TransactionDraft) (ImportResult, error) {
	for i, d := range drafts {
		if err := validateDraft(d); err != nil {
			return ImportResult{}, fmt.Errorf("draft %d: %w", i, err)
		}
	}
	if len(drafts) == 0 {
		return ImportResult{}, nil
	}

	s.mu.Lock()
	fresh, duplicates := newDrafts(s.state.Transactions, drafts)
	if len(fresh) == 0 {
		s.mu.Unlock()
		s.logger.Info("nothing new to import", "duplicates", duplicates)
		return ImportResult{Duplicates: duplicates}, nil
	}

	now := s.clock()
	batch := make([]model.Transaction, 0, len(fresh))
	for _, d := range fresh {
		d.Category = strings.TrimSpace(d.Category)
		d.Note = strings.TrimSpace(d.Note)
		batch = append(batch, d.Build(s.ids.NewID(), now))
	}
	slices.SortStableFunc(batch, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	next := s.state.Clone()
	balance := next.Balance
	for _, tx := range batch {
		balance = balance.Add(tx.SignedAmount())
	}
	next.Transactions = append(slices.Clone(batch), next.Transactions...)
	next.Balance = balance

	if err := s.commit(ctx, next, storage.FieldTransactions, storage.FieldBalance); err != nil {
		s.mu.Unlock()
		return ImportResult{}, err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("imported transactions",
		"count", len(batch),
		"duplicates", duplicates,
		"balance", snapshot.Balance.String())
	s.publish(Event{Kind: EventTransactionsImported, Transactions: batch, Snapshot: snapshot})
	return ImportResult{Added: batch, Duplicates: duplicates}, nil
}

// NewDrafts returns the drafts Import would add and how many it would skip
// as already imported.
func (s *Store) NewDrafts(drafts []model.TransactionDraft) ([]model.TransactionDraft, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newDrafts(s.state.Transactions, drafts)
}

func newDrafts(history []model.Transaction, drafts []model.TransactionDraft) ([]model.TransactionDraft, int) {
	seen := make(map[string]bool)
	for _, tx := range history {
		if tx.ImportHash != "" {
			seen[tx.ImportHash] = true
		}
	}

	fresh := make([]model.TransactionDraft, 0, len(drafts))
	duplicates := 0
	for _, d := range drafts {
		if d.ImportHash != "" {
			if seen[d.ImportHash] {
				duplicates++
				continue
			}
			seen[d.ImportHash] = true
		}
		fresh = append(fresh, d)
	}
	return fresh, duplicates
}

// AddCategory appends a new category and returns its id.
func (s *Store) AddCategory(ctx context.Context, draft model.CategoryDraft) (string, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := validateCategory(draft.Name, draft.InitialBudget); err != nil {
		return "", err
	}

	s.mu.Lock()
	cat := draft.Build(s.ids.NewID())
	next := s.state.Clone()
	next.Categories = append(next.Categories, cat)

	if err := s.commit(ctx, next, storage.FieldCategories); err != nil {
		s.mu.Unlock()
		return "", err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Debug("category added", "id", cat.ID, "name", cat.Name)
	s.publish(Event{Kind: EventCategoryAdded, CategoryID: cat.ID, Snapshot: snapshot})
	return cat.ID, nil
}

// UpdateCategory replaces the category with the same id. It reports false,
// and changes nothing, when no such category exists.
func (s *Store) UpdateCategory(ctx context.Context, cat model.CategoryDef) (bool, error) {
	cat.Name = strings.TrimSpace(cat.Name)
	if err := validateCategory(cat.Name, cat.InitialBudget); err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.state.Categories, func(c model.CategoryDef) bool { return c.ID == cat.ID })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := s.state.Clone()
	next.Categories[idx] = cat
	if err := s.commit(ctx, next, storage.FieldCategories); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventCategoryUpdated, CategoryID: cat.ID, Snapshot: snapshot})
	return true, nil
}

// DeleteCategory removes a category. Transactions that reference it are kept
// as they are and resolve to a placeholder when displayed. It reports false
// when no such category exists.
func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.state.Categories, func(c model.CategoryDef) bool { return c.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := s.state.Clone()
	next.Categories = slices.Delete(next.Categories, idx, idx+1)
	if err := s.commit(ctx, next, storage.FieldCategories); err != nil {
		s.mu.Unlock()
		return false, err
	}
	orphaned := 0
	for _, tx := range next.Transactions {
		if tx.Category == id {
			orphaned++
		}
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if orphaned > 0 {
		s.logger.Info("deleted category still referenced by transactions", "id", id, "transactions", orphaned)
	}
	s.publish(Event{Kind: EventCategoryDeleted, CategoryID: id, Snapshot: snapshot})
	return true, nil
}

// UpdateUser replaces the user profile. A nil profile signs the user out.
func (s *Store) UpdateUser(ctx context.Context, user *model.UserProfile) error {
	s.mu.Lock()
	next := s.state.Clone()
	if user != nil {
		u := *user
		next.User = &u
	} else {
		next.User = nil
	}
	if err := s.commit(ctx, next, storage.FieldUser); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventUserUpdated, Snapshot: snapshot})
	return nil
}

// UpdateNotifications replaces the notification settings.
func (s *Store) UpdateNotifications(ctx context.Context, settings model.NotificationSettings) error {
	s.mu.Lock()
	next := s.state.Clone()
	next.Notifications = settings
	if err := s.commit(ctx, next, storage.FieldNotifications); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventNotificationsUpdated, Snapshot: snapshot})
	return nil
}

// Reset deletes every persisted field and starts over from the default
// state with the given opening balance.
func (s *Store) Reset(ctx context.Context, opening decimal.Decimal) error {
	s.mu.Lock()
	next := model.DefaultState()
	next.OpeningBalance = opening
	next.Balance = opening

	if err := s.repo.Clear(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("ledger reset", "opening_balance", opening.String())
	s.publish(Event{Kind: EventReset, Snapshot: snapshot})
	return nil
}

// Category returns the category with the given id.
func (s *Store) Category(id string) (model.CategoryDef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := model.FindCategory(s.state.Categories, id)
	if !ok {
		return model.CategoryDef{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return c, nil
}

// Recent returns up to n of the most recent transactions ordered by date,
// newest first. n <= 0 returns all of them.
func (s *Store) Recent(n int) []model.Transaction {
	s.mu.RLock()
	txs := slices.Clone(s.state.Transactions)
	s.mu.RUnlock()

	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano())
	})
	if n > 0 && len(txs) > n {
		txs = txs[:n]
	}
	return txs
}
