package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/ledger"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage spending categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesUpdateCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List spending categories and income sources",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			idCol := lipgloss.NewStyle().Width(38)
			nameCol := lipgloss.NewStyle().Width(20)

			writeln(cmd, cli.FormatTitle("Categories"))
			writeln(cmd, cli.TableHeaderStyle.Render(idCol.Render("ID")+nameCol.Render("Name")+"Budget"))
			for _, c := range a.store.Snapshot().Categories {
				writeln(cmd, idCol.Render(c.ID)+nameCol.Render(c.Icon+" "+c.Name)+cli.FormatMoney(c.InitialBudget))
			}

			writeln(cmd)
			writeln(cmd, cli.SubtitleStyle.Render("Income sources"))
			for _, c := range model.IncomeCategories {
				writeln(cmd, idCol.Render(c.ID)+nameCol.Render(c.Icon+" "+c.Name))
			}
			return nil
		}),
	}
}

type categoryFlags struct {
	name   string
	icon   string
	color  string
	bg     string
	budget string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon (usually an emoji)")
	cmd.Flags().StringVar(&f.color, "color", "", "Foreground color, e.g. #f97316")
	cmd.Flags().StringVar(&f.bg, "bg", "", "Background color")
	cmd.Flags().StringVar(&f.budget, "budget", "", "Budget ceiling")
}

func categoriesAddCmd() *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a spending category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			draft := model.CategoryDraft{
				Name:  args[0],
				Icon:  f.icon,
				Color: f.color,
				Bg:    f.bg,
			}
			if f.budget != "" {
				amount, err := model.ParseAmount(f.budget)
				if err != nil {
					return common.NewUserError("Budget must be a number", err)
				}
				draft.InitialBudget = amount
			}

			id, err := a.store.AddCategory(cmd.Context(), draft)
			if err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess(fmt.Sprintf("Added %s (%s)", strings.TrimSpace(draft.Name), id)))
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

func categoriesUpdateCmd() *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a category's name, look or budget",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			cat, err := a.store.Category(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Unknown category %q", args[0]), err)
			}

			changed := false
			set := func(flagName string, dst *string, value string) {
				if cmd.Flags().Changed(flagName) {
					*dst = value
					changed = true
				}
			}
			set("name", &cat.Name, f.name)
			set("icon", &cat.Icon, f.icon)
			set("color", &cat.Color, f.color)
			set("bg", &cat.Bg, f.bg)
			if cmd.Flags().Changed("budget") {
				amount, err := model.ParseAmount(f.budget)
				if err != nil {
					return common.NewUserError("Budget must be a number", err)
				}
				cat.InitialBudget = amount
				changed = true
			}
			if !changed {
				writeln(cmd, cli.FormatInfo("Nothing to change"))
				return nil
			}

			ok, err := a.store.UpdateCategory(cmd.Context(), cat)
			if err != nil {
				return err
			}
			if !ok {
				return common.NewUserError(fmt.Sprintf("Unknown category %q", cat.ID), ledger.ErrCategoryNotFound)
			}
			writeln(cmd, cli.FormatSuccess("Updated "+cat.Name))
			return nil
		}),
	}
	f.register(cmd)
	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its transactions are kept",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			cat, err := a.store.Category(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Unknown category %q", args[0]), err)
			}

			ok, err := a.confirm(cmd.Context(), cmd, force, fmt.Sprintf("Delete %s?", cat.Name))
			if err != nil || !ok {
				return err
			}

			if _, err := a.store.DeleteCategory(cmd.Context(), cat.ID); err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess("Deleted "+cat.Name))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}
