package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and list transactions",
	}
	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDayCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		income   bool
		category string
		note     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an expense (or income with --income)",
		Long: `Record a transaction. Amounts accept either "12.50" or "12,50".

Examples:
  parayon tx add 120 --category yemek --note "Öğle yemeği"
  parayon tx add 15000 --income --category maas
  parayon tx add 80,50 -c ulasim --date 2026-10-14`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			amount, err := model.ParseAmount(args[0])
			if err != nil {
				return common.NewUserError("Amount must be a positive number", err)
			}

			draft := model.TransactionDraft{
				Amount:   amount,
				Type:     model.TypeExpense,
				Category: category,
				Note:     note,
			}
			if income {
				draft.Type = model.TypeIncome
			}

			snap := a.store.Snapshot()
			if draft.Category, err = resolveDraftCategory(snap.Categories, draft.Type, category); err != nil {
				return err
			}

			if date != "" {
				day, err := aggregate.ParseDay(date)
				if err != nil {
					return common.NewUserError("Date must look like 2026-10-14", err)
				}
				now := a.store.Now()
				draft.Date = time.Date(day.Year, day.Month, day.Day,
					now.Hour(), now.Minute(), now.Second(), 0, a.location())
			}

			stop := a.watchBudgets(cmd)
			tx, err := a.store.AddTransaction(cmd.Context(), draft)
			stop()
			if err != nil {
				return err
			}

			writeln(cmd, cli.FormatSuccess(fmt.Sprintf("Recorded %s (%s)", cli.FormatSigned(tx), tx.ID)))
			if tx.IsExpense() {
				if cat, err := a.store.Category(tx.Category); err == nil {
					remaining := budget.RemainingFor(a.store.Snapshot().Transactions, cat)
					writeln(cmd, cli.FormatInfo(fmt.Sprintf("%s budget remaining: %s", cat.Name, cli.FormatMoney(remaining))))
				}
			}
			writeln(cmd, cli.SubtitleStyle.Render("Balance: ")+cli.FormatMoney(a.store.Balance()))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&income, "income", "i", false, "Record income instead of an expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category id (see 'parayon categories list')")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-text note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: now)")
	return cmd
}

// resolveDraftCategory validates the category id for the transaction type.
// Expenses default to the first category and income to the generic income
// source.
func resolveDraftCategory(categories []model.CategoryDef, typ model.TransactionType, id string) (string, error) {
	id = strings.TrimSpace(id)

	if typ == model.TypeIncome {
		if id == "" {
			return model.DefaultIncomeCategoryID, nil
		}
		if model.IsIncomeCategory(id) {
			return id, nil
		}
		return "", common.NewUserError(fmt.Sprintf("Unknown income source %q", id), ledger.ErrCategoryNotFound)
	}

	if id == "" {
		if len(categories) == 0 {
			return model.UncategorizedID, nil
		}
		return categories[0].ID, nil
	}
	if id == model.UncategorizedID {
		return id, nil
	}
	if _, ok := model.FindCategory(categories, id); !ok {
		return "", common.NewUserError(fmt.Sprintf("Unknown category %q", id), ledger.ErrCategoryNotFound)
	}
	return id, nil
}

func txListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			txs := a.store.Recent(limit)
			writeln(cmd, cli.FormatTitle("Transactions"))
			writeln(cmd, cli.RenderTransactions(txs, a.store.Snapshot().Categories, a.location()))
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of transactions to show (0 for all)")
	return cmd
}

func txDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List the transactions of one day (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			day := aggregate.DayOf(a.store.Now(), a.location())
			if len(args) == 1 {
				parsed, err := aggregate.ParseDay(args[0])
				if err != nil {
					return common.NewUserError("Date must look like 2026-10-14", err)
				}
				day = parsed
			}

			snap := a.store.Snapshot()
			txs := aggregate.TransactionsOnDay(snap.Transactions, day, a.location())
			activity := aggregate.DayActivity(snap.Transactions, day, a.location())

			writeln(cmd, cli.FormatTitle(day.String()+" "+aggregate.WeekdayLabel(day.Weekday())))
			writeln(cmd, cli.RenderTransactions(txs, snap.Categories, a.location()))
			if activity.Any() {
				writef(cmd, "\n%s expense  %s income\n",
					mark(activity.HasExpense), mark(activity.HasIncome))
			}
			return nil
		}),
	}
}

func mark(b bool) string {
	if b {
		return cli.SuccessStyle.Render(cli.SuccessIcon)
	}
	return cli.SubtleStyle.Render("·")
}
