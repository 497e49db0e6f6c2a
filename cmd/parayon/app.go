package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/config"
	"github.com/Veraticus/parayon/internal/insight"
	"github.com/Veraticus/parayon/internal/insight/ocr"
	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/llm"
	"github.com/Veraticus/parayon/internal/storage"
	"github.com/spf13/cobra"
)

// app holds the resources a command needs for one run.
type app struct {
	cfg   config.Config
	db    *storage.SQLiteStorage
	store *ledger.Store
	llm   *llm.Service
	input *cli.NonBlockingReader
}

// openApp opens the database and loads the ledger.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	db, err := storage.NewSQLiteStorage(appConfig.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := storage.NewStateRepository(db, slog.Default())
	store, err := ledger.Open(ctx, repo,
		ledger.WithLogger(slog.Default()),
		ledger.WithOpeningBalance(appConfig.OpeningBalance))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.Verify(); err != nil {
		slog.Warn("ledger balance check failed, run 'parayon balance --reconcile'", "error", err)
	}

	return &app{
		cfg:   appConfig,
		db:    db,
		store: store,
		input: cli.NewNonBlockingReader(cmd.InOrStdin()),
	}, nil
}

// Close releases the database and any service clients.
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			slog.Warn("failed to close LLM service", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// budgetWindow is the window budgets are measured over.
func (a *app) budgetWindow() budget.Window {
	if a.cfg.BudgetPeriod == config.BudgetPeriodMonth {
		return budget.MonthWindow(a.store.Now())
	}
	return budget.AllTime
}

// watchBudgets prints a warning for each category that a committed expense
// takes over budget, while budget alerts are on. Call cancel when done.
func (a *app) watchBudgets(cmd *cobra.Command) (cancel func()) {
	return a.store.Subscribe(func(ev ledger.Event) {
		if ev.Kind != ledger.EventTransactionAdded && ev.Kind != ledger.EventTransactionsImported {
			return
		}
		if !ev.Snapshot.Notifications.BudgetAlerts {
			return
		}

		touched := make(map[string]bool)
		for _, tx := range ev.Transactions {
			if tx.IsExpense() {
				touched[tx.Category] = true
			}
		}
		for _, v := range budget.ComputeBudgetsInWindow(ev.Snapshot.Transactions, ev.Snapshot.Categories, a.budgetWindow()) {
			if touched[v.Category.ID] && v.OverBudget() {
				writeln(cmd, cli.FormatWarning(fmt.Sprintf("%s is over budget by %s",
					v.Category.Name, cli.FormatMoney(v.Available.Neg()))))
			}
		}
	})
}

// location is where calendar days are evaluated.
func (a *app) location() *time.Location {
	return a.store.Now().Location()
}

// gateway wires the configured providers into an insight gateway. Missing
// credentials leave the gateway without a generator so it falls back.
func (a *app) gateway() *insight.Gateway {
	var generator insight.Generator
	if a.cfg.HasLLM() {
		svc, err := llm.NewServiceFromConfig(a.cfg.LLM, slog.Default())
		if err != nil {
			slog.Warn("AI provider unavailable", "provider", a.cfg.LLM.Provider, "error", err)
		} else {
			a.llm = svc
			generator = svc
		}
	}

	var extractor insight.ReceiptExtractor
	switch a.cfg.ReceiptProvider {
	case config.ReceiptProviderTesseract:
		if !ocr.Available {
			slog.Warn("receipt provider tesseract requested but binary built without it")
		}
		extractor = ocr.New(a.cfg.OCRLanguages...)
	default:
		if generator != nil {
			extractor = insight.NewLLMExtractor(generator)
		}
	}

	return insight.NewGateway(generator, extractor, insight.WithLogger(slog.Default()))
}

func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

func writeln(cmd *cobra.Command, args ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), args...)
}

func writef(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// confirm asks question unless force is set.
func (a *app) confirm(ctx context.Context, cmd *cobra.Command, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	return a.input.Confirm(ctx, cmd.OutOrStdout(), question)
}
