package main

import (
	"errors"

	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/storage"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions, categories and settings",
		Long: `Reset the ledger to a fresh state with the default categories and the
configured opening balance. A backup of the database is written first.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ok, err := a.confirm(cmd.Context(), cmd, force, "This deletes all ledger data. Continue?")
			if err != nil || !ok {
				return err
			}

			info, err := a.db.Backup(cmd.Context(), "reset")
			switch {
			case errors.Is(err, storage.ErrBackupUnsupported):
				writeln(cmd, cli.FormatWarning("In-memory database, no backup written"))
			case err != nil:
				return err
			default:
				writeln(cmd, cli.FormatInfo("Backup written to "+info.Path))
			}

			if err := a.store.Reset(cmd.Context(), a.cfg.OpeningBalance); err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess("Ledger reset"))
			writeln(cmd, cli.SubtitleStyle.Render("Balance: ")+cli.FormatMoney(a.store.Balance()))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}
