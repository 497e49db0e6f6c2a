package main

import (
	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/cli"
	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	var reconcile bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the unassigned balance",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if reconcile {
				changed, err := a.store.Reconcile(cmd.Context())
				if err != nil {
					return err
				}
				if changed {
					writeln(cmd, cli.SuccessStyle.Render("Balance rebuilt from transaction history"))
				} else {
					writeln(cmd, "Balance already matches transaction history")
				}
			}

			snap := a.store.Snapshot()

			writeln(cmd, cli.FormatTitle("Balance"))
			writeln(cmd, cli.RenderBalance(snap.Balance, aggregate.Totals(snap.Transactions)))
			writeln(cmd)
			writeln(cmd, cli.SubtitleStyle.Render("This month: ")+
				cli.FormatMoney(aggregate.MonthToDateExpense(snap.Transactions, a.store.Now())))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&reconcile, "reconcile", false, "Rebuild the balance from the transaction history first")
	return cmd
}
