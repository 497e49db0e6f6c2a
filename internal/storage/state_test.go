package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleState() model.LedgerState {
	state := model.DefaultState()
	state.User = &model.UserProfile{FirstName: "Ayşe", LastName: "Yılmaz", Email: "ayse@example.com"}
	state.OpeningBalance = decimal.NewFromInt(1000)
	state.Transactions = []model.Transaction{
		{
			ID:       "t2",
			Amount:   decimal.RequireFromString("250.75"),
			Category: "yemek",
			Type:     model.TypeExpense,
			Date:     time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC),
			Note:     "market",
		},
		{
			ID:       "t1",
			Amount:   decimal.NewFromInt(500),
			Category: "maas",
			Type:     model.TypeIncome,
			Date:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		},
	}
	state.Balance = decimal.RequireFromString("1249.25")
	state.Notifications.BudgetAlerts = false
	return state
}

func assertStatesEqual(t *testing.T, want, got model.LedgerState) {
	t.Helper()
	assert.Equal(t, want.User, got.User)
	assert.Equal(t, want.Notifications, got.Notifications)
	assert.True(t, want.Balance.Equal(got.Balance), "balance: want %s, got %s", want.Balance, got.Balance)
	assert.True(t, want.OpeningBalance.Equal(got.OpeningBalance), "opening: want %s, got %s", want.OpeningBalance, got.OpeningBalance)

	require.Len(t, got.Transactions, len(want.Transactions))
	for i := range want.Transactions {
		w, g := want.Transactions[i], got.Transactions[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Type, g.Type)
		assert.Equal(t, w.Note, g.Note)
		assert.True(t, w.Date.Equal(g.Date), "date of %s", w.ID)
		assert.True(t, w.Amount.Equal(g.Amount), "amount of %s", w.ID)
	}

	require.Len(t, got.Categories, len(want.Categories))
	for i := range want.Categories {
		w, g := want.Categories[i], got.Categories[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Icon, g.Icon)
		assert.True(t, w.InitialBudget.Equal(g.InitialBudget), "budget of %s", w.ID)
	}
}

func TestStateRepository_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewStateRepository(store, quietLogger())
	want := sampleState()
	require.NoError(t, repo.Save(ctx, want))

	got := NewStateRepository(store, quietLogger()).Load(ctx)
	assertStatesEqual(t, want, got)
}

func TestStateRepository_LoadEmpty(t *testing.T) {
	repo := NewStateRepository(NewMemoryStorage(), quietLogger())
	got := repo.Load(context.Background())

	assertStatesEqual(t, model.DefaultState(), got)
	assert.Nil(t, got.User)
	assert.NotNil(t, got.Transactions)
}

func TestStateRepository_SaveSelectedFields(t *testing.T) {
	mem := NewMemoryStorage()
	repo := NewStateRepository(mem, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleState(), FieldTransactions, FieldBalance))

	_, found, err := mem.Get(ctx, FieldUser.Key())
	require.NoError(t, err)
	assert.False(t, found, "user should not be written")

	raw, found, err := mem.Get(ctx, FieldBalance.Key())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1249.25", string(raw))
}

func TestStateRepository_NilUserDeletesKey(t *testing.T) {
	mem := NewMemoryStorage()
	repo := NewStateRepository(mem, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleState()))
	state := sampleState()
	state.User = nil
	require.NoError(t, repo.Save(ctx, state, FieldUser))

	assert.Nil(t, repo.Load(ctx).User)
}

func TestStateRepository_CorruptFieldsFallBack(t *testing.T) {
	tests := []struct {
		check func(t *testing.T, got model.LedgerState)
		raw   map[string]string
		name  string
	}{
		{
			name: "corrupt transactions",
			raw: map[string]string{
				FieldTransactions.Key(): `[{"id":`,
				FieldBalance.Key():      "100",
			},
			check: func(t *testing.T, got model.LedgerState) {
				t.Helper()
				assert.Empty(t, got.Transactions)
				assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
			},
		},
		{
			name: "corrupt categories",
			raw: map[string]string{
				FieldCategories.Key(): `{not json}`,
			},
			check: func(t *testing.T, got model.LedgerState) {
				t.Helper()
				assert.Len(t, got.Categories, len(model.DefaultCategories()))
			},
		},
		{
			name: "null user",
			raw: map[string]string{
				FieldUser.Key(): `null`,
			},
			check: func(t *testing.T, got model.LedgerState) {
				t.Helper()
				assert.Nil(t, got.User)
			},
		},
		{
			name: "corrupt balance is derived",
			raw: map[string]string{
				FieldTransactions.Key():   `[{"id":"a","amount":"40","category":"yemek","date":"2026-10-01T10:00:00Z","type":"expense"}]`,
				FieldBalance.Key():        "abc",
				FieldOpeningBalance.Key(): "100",
				FieldNotifications.Key():  `{"reminderTime":"21:00","dailyReminders":false,"budgetAlerts":true,"aiInsights":true}`,
			},
			check: func(t *testing.T, got model.LedgerState) {
				t.Helper()
				assert.True(t, got.Balance.Equal(decimal.NewFromInt(60)), "got %s", got.Balance)
				assert.Equal(t, "21:00", got.Notifications.ReminderTime)
				assert.False(t, got.Notifications.DailyReminders)
			},
		},
		{
			name: "numeric amounts are accepted",
			raw: map[string]string{
				FieldTransactions.Key(): `[{"id":"a","amount":12.5,"category":"maas","date":"2026-10-01T10:00:00Z","type":"income"}]`,
			},
			check: func(t *testing.T, got model.LedgerState) {
				t.Helper()
				require.Len(t, got.Transactions, 1)
				assert.True(t, got.Balance.Equal(decimal.RequireFromString("12.5")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemoryStorage()
			ctx := context.Background()
			for k, v := range tt.raw {
				require.NoError(t, mem.Put(ctx, k, []byte(v)))
			}
			tt.check(t, NewStateRepository(mem, quietLogger()).Load(ctx))
		})
	}
}

func TestStateRepository_BalanceReconciliation(t *testing.T) {
	txs := `[{"id":"a","amount":"300","category":"yemek","date":"2026-10-01T10:00:00Z","type":"expense"},` +
		`{"id":"b","amount":"1000","category":"maas","date":"2026-09-30T10:00:00Z","type":"income"}]`

	tests := []struct {
		raw         map[string]string
		wantBalance string
		wantOpening string
		name        string
	}{
		{
			name:        "legacy data infers opening balance",
			raw:         map[string]string{FieldBalance.Key(): "5700"},
			wantBalance: "5700",
			wantOpening: "5000",
		},
		{
			name:        "consistent stored values",
			raw:         map[string]string{FieldBalance.Key(): "5700", FieldOpeningBalance.Key(): "5000"},
			wantBalance: "5700",
			wantOpening: "5000",
		},
		{
			name:        "drifted balance is kept as stored",
			raw:         map[string]string{FieldBalance.Key(): "9999", FieldOpeningBalance.Key(): "5000"},
			wantBalance: "9999",
			wantOpening: "5000",
		},
		{
			name:        "missing balance is derived from zero opening",
			raw:         map[string]string{},
			wantBalance: "700",
			wantOpening: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := NewMemoryStorage()
			ctx := context.Background()
			require.NoError(t, mem.Put(ctx, FieldTransactions.Key(), []byte(txs)))
			for k, v := range tt.raw {
				require.NoError(t, mem.Put(ctx, k, []byte(v)))
			}

			got := NewStateRepository(mem, quietLogger()).Load(ctx)
			assert.Equal(t, tt.wantBalance, got.Balance.String())
			assert.Equal(t, tt.wantOpening, got.OpeningBalance.String())
		})
	}
}

func TestStateRepository_Clear(t *testing.T) {
	mem := NewMemoryStorage()
	repo := NewStateRepository(mem, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleState()))
	require.NoError(t, repo.Clear(ctx))

	got := repo.Load(ctx)
	assertStatesEqual(t, model.DefaultState(), got)
}
