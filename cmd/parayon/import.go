package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/Veraticus/parayon/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Debits are recorded as uncategorized expenses and credits as income.

Examples:
  parayon import ~/Downloads/ekstre_ekim.qfx
  parayon import ~/Downloads/*.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return common.NewUserError("No files found to import", os.ErrNotExist)
			}

			slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

			parser := ofx.NewParser(slog.Default())
			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionSetDescription("[cyan]Reading statements...[reset]"),
				progressbar.OptionClearOnFinish())

			var drafts []model.TransactionDraft
			skipped := 0
			for _, path := range files {
				stmt, err := parseStatement(cmd, parser, path)
				_ = bar.Add(1)
				if err != nil {
					slog.Error("Failed to import file", "file", path, "error", err)
					continue
				}
				drafts = append(drafts, stmt.Drafts...)
				skipped += stmt.Skipped
			}
			_ = bar.Finish()

			if len(drafts) == 0 {
				writeln(cmd, cli.FormatWarning("No transactions found in any file"))
				return nil
			}
			writeln(cmd, cli.FormatInfo(fmt.Sprintf("Found %d transactions in %d files (%d skipped)", len(drafts), len(files), skipped)))

			if dryRun {
				fresh, duplicates := a.store.NewDrafts(drafts)
				preview := make([]model.Transaction, 0, len(fresh))
				for i, d := range fresh {
					preview = append(preview, d.Build(fmt.Sprintf("preview-%d", i), a.store.Now()))
				}
				writeln(cmd, cli.RenderTransactions(preview, a.store.Snapshot().Categories, a.location()))
				if duplicates > 0 {
					writeln(cmd, cli.FormatInfo(fmt.Sprintf("%d already imported", duplicates)))
				}
				writeln(cmd, cli.FormatInfo("Dry run: nothing was saved"))
				return nil
			}

			stop := a.watchBudgets(cmd)
			result, err := a.store.Import(cmd.Context(), drafts)
			stop()
			if err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d duplicates skipped)",
				len(result.Added), result.Duplicates)))
			writeln(cmd, cli.SubtitleStyle.Render("Balance: ")+cli.FormatMoney(a.store.Balance()))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview the import without saving")
	return cmd
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, path string) (*ofx.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(cmd.Context(), f)
}

// expandGlobs resolves shell patterns, keeping plain paths that match no
// pattern but exist on disk.
func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	return files, nil
}
