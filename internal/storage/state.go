package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/service"
	"github.com/shopspring/decimal"
)

// Field identifies one independently persisted part of the ledger state.
type Field int

// Persisted fields.
const (
	FieldUser Field = iota
	FieldTransactions
	FieldBalance
	FieldCategories
	FieldNotifications
	FieldOpeningBalance
)

// AllFields lists every persisted field.
var AllFields = []Field{FieldUser, FieldTransactions, FieldBalance, FieldCategories, FieldNotifications, FieldOpeningBalance}

// Key returns the storage key of f.
func (f Field) Key() string {
	switch f {
	case FieldUser:
		return "parayon_user"
	case FieldTransactions:
		return "parayon_transactions"
	case FieldBalance:
		return "parayon_balance"
	case FieldCategories:
		return "parayon_categories"
	case FieldNotifications:
		return "parayon_notifications"
	case FieldOpeningBalance:
		return "parayon_opening_balance"
	default:
		return fmt.Sprintf("parayon_field_%d", int(f))
	}
}

// StateRepository reads and writes model.LedgerState field by field.
type StateRepository struct {
	blobs  service.BlobStore
	logger *slog.Logger
}

// NewStateRepository creates a repository over blobs.
func NewStateRepository(blobs service.BlobStore, logger *slog.Logger) *StateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateRepository{blobs: blobs, logger: logger}
}

// Load reads the persisted state. It never fails: a missing, unreadable or
// corrupt field falls back to its default and the problem is logged.
func (r *StateRepository) Load(ctx context.Context) model.LedgerState {
	state := model.DefaultState()

	var user model.UserProfile
	if r.readJSON(ctx, FieldUser, &user) {
		state.User = &user
	}

	var txs []model.Transaction
	if r.readJSON(ctx, FieldTransactions, &txs) && txs != nil {
		state.Transactions = txs
	}

	var cats []model.CategoryDef
	if r.readJSON(ctx, FieldCategories, &cats) && cats != nil {
		state.Categories = cats
	}

	var notif model.NotificationSettings
	if r.readJSON(ctx, FieldNotifications, &notif) {
		state.Notifications = notif
	}

	net := decimal.Zero
	for _, tx := range state.Transactions {
		net = net.Add(tx.SignedAmount())
	}

	balance, haveBalance := r.readDecimal(ctx, FieldBalance)
	opening, haveOpening := r.readDecimal(ctx, FieldOpeningBalance)

	switch {
	case haveBalance && haveOpening:
		state.OpeningBalance = opening
		state.Balance = balance
		// A drifted balance is kept as stored so callers can detect it.
		if derived := opening.Add(net); !derived.Equal(balance) {
			r.logger.Warn("stored balance drifted from transaction history",
				"stored", balance.String(),
				"derived", derived.String())
		}
	case haveBalance:
		// Older data has no opening balance; infer it so the history stays consistent.
		state.Balance = balance
		state.OpeningBalance = balance.Sub(net)
	default:
		if haveOpening {
			state.OpeningBalance = opening
		}
		state.Balance = state.OpeningBalance.Add(net)
	}

	return state
}

// Save writes the given fields of state; with no fields it writes all of them.
// Each field is written completely before the next one starts.
func (r *StateRepository) Save(ctx context.Context, state model.LedgerState, fields ...Field) error {
	if len(fields) == 0 {
		fields = AllFields
	}

	for _, f := range fields {
		if err := r.saveField(ctx, state, f); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every persisted field.
func (r *StateRepository) Clear(ctx context.Context) error {
	return r.blobs.Clear(ctx)
}

func (r *StateRepository) saveField(ctx context.Context, state model.LedgerState, f Field) error {
	var (
		data []byte
		err  error
	)

	switch f {
	case FieldUser:
		if state.User == nil {
			if err := r.blobs.Delete(ctx, f.Key()); err != nil {
				return fmt.Errorf("failed to clear %s: %w", f.Key(), err)
			}
			return nil
		}
		data, err = json.Marshal(state.User)
	case FieldTransactions:
		txs := state.Transactions
		if txs == nil {
			txs = []model.Transaction{}
		}
		data, err = json.Marshal(txs)
	case FieldBalance:
		data = []byte(state.Balance.String())
	case FieldCategories:
		cats := state.Categories
		if cats == nil {
			cats = []model.CategoryDef{}
		}
		data, err = json.Marshal(cats)
	case FieldNotifications:
		data, err = json.Marshal(state.Notifications)
	case FieldOpeningBalance:
		data = []byte(state.OpeningBalance.String())
	default:
		return fmt.Errorf("unknown field %d", int(f))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.Key(), err)
	}

	if err := r.blobs.Put(ctx, f.Key(), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", f.Key(), err)
	}
	return nil
}

func (r *StateRepository) readJSON(ctx context.Context, f Field, dst any) bool {
	data, ok := r.read(ctx, f)
	if !ok || string(bytes.TrimSpace(data)) == "null" {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warn("ignoring corrupt stored value", "key", f.Key(), "error", err)
		return false
	}
	return true
}

func (r *StateRepository) readDecimal(ctx context.Context, f Field) (decimal.Decimal, bool) {
	data, ok := r.read(ctx, f)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(data)))
	if err != nil {
		r.logger.Warn("ignoring corrupt stored value", "key", f.Key(), "error", err)
		return decimal.Zero, false
	}
	return d, true
}

func (r *StateRepository) read(ctx context.Context, f Field) ([]byte, bool) {
	data, found, err := r.blobs.Get(ctx, f.Key())
	if err != nil {
		r.logger.Warn("failed to read stored value, using default", "key", f.Key(), "error", err)
		return nil, false
	}
	return data, found
}
