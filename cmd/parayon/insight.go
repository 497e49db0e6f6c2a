package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/parayon/internal/aggregate"
	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/spf13/cobra"
)

func insightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Get a short saving tip for this month",
		Long: `Ask the configured AI provider for a one-line saving tip based on the
current balance and this month's spending. A fixed tip is shown when no
provider is configured or the request fails.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			snap := a.store.Snapshot()
			if !snap.Notifications.AIInsights {
				writeln(cmd, cli.FormatInfo("AI insights are turned off (parayon notifications set --ai=true)"))
				return nil
			}

			monthSpend := aggregate.MonthToDateExpense(snap.Transactions, a.store.Now())
			text := a.gateway().FinancialInsight(cmd.Context(), snap.Balance, monthSpend)
			writeln(cmd, cli.RenderBox(cli.RobotIcon+" Insight", text))
			return nil
		}),
	}
}

func scanCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Read a receipt photo and record it as an expense",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return common.NewUserError("Could not read "+args[0], err)
			}

			snap := a.store.Snapshot()
			writeln(cmd, cli.FormatInfo(cli.ReceiptIcon+" Reading receipt..."))
			receipt := a.gateway().AnalyzeReceipt(cmd.Context(), image, snap.Categories)
			if receipt == nil {
				writeln(cmd, cli.FormatWarning("The receipt could not be read. Try another photo with the total clearly visible."))
				return nil
			}

			cat := model.ResolveCategory(snap.Categories, receipt.CategoryID)
			lines := []string{
				cli.BoldStyle.Render("Store:    ") + receipt.StoreName,
				cli.BoldStyle.Render("Amount:   ") + cli.FormatMoney(receipt.Amount),
				cli.BoldStyle.Render("Category: ") + cat.Icon + " " + cat.Name,
				cli.BoldStyle.Render("Date:     ") + receipt.Date.In(a.location()).Format("02.01.2006"),
			}
			if receipt.Note != "" {
				lines = append(lines, cli.BoldStyle.Render("Note:     ")+receipt.Note)
			}
			writeln(cmd, cli.RenderBox("Receipt", strings.Join(lines, "\n")))

			ok, err := a.confirm(cmd.Context(), cmd, yes, "Record this expense?")
			if err != nil || !ok {
				return err
			}

			stop := a.watchBudgets(cmd)
			tx, err := a.store.AddTransaction(cmd.Context(), receipt.Draft())
			stop()
			if err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess(fmt.Sprintf("Recorded %s (%s)", cli.FormatSigned(tx), tx.ID)))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Record without asking")
	return cmd
}
