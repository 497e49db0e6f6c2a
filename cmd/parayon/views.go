package main

import (
	"time"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/budget"
	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Show spending against each category budget",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			writeln(cmd, cli.FormatTitle("Budgets"))
			writeln(cmd, cli.RenderBudgets(a.store.Budgets(a.budgetWindow())))
			return nil
		}),
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show which days of a month had activity",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			loc := a.location()
			now := a.store.Now()
			month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			if len(args) == 1 {
				parsed, err := time.ParseInLocation("2006-01", args[0], loc)
				if err != nil {
					return common.NewUserError("Month must look like 2026-10", err)
				}
				month = parsed
			}

			activity := aggregate.MonthActivity(a.store.Snapshot().Transactions, month)
			writeln(cmd, cli.RenderCalendar(month, activity, aggregate.DayOf(now, loc)))
			return nil
		}),
	}
}

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show expenses over the last seven days",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			writeln(cmd, cli.FormatTitle("Last 7 days"))
			writeln(cmd, cli.RenderWeekly(aggregate.WeeklySeries(a.store.Snapshot().Transactions, a.store.Now())))
			return nil
		}),
	}
}

func analysisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analysis",
		Short: "Show each category's share of spending",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			snap := a.store.Snapshot()
			writeln(cmd, cli.FormatTitle(cli.ChartIcon+" Spending breakdown"))
			writeln(cmd, cli.RenderBreakdown(budget.Breakdown(snap.Transactions, snap.Categories)))
			return nil
		}),
	}
}
