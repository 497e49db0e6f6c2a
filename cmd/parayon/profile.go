package main

import (
	"net/mail"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/cli"
	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the ledger owner",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile and notification settings",
		Args:  cobra.NoArgs,
		RunE:  withApp(showProfile),
	})
	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the profile",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.store.UpdateUser(cmd.Context(), nil); err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess("Profile removed"))
			return nil
		}),
	})
	return cmd
}

func showProfile(cmd *cobra.Command, _ []string, a *app) error {
	snap := a.store.Snapshot()
	writeln(cmd, cli.FormatTitle("Profile"))
	writeln(cmd, cli.RenderProfile(snap.User, snap.Notifications))
	return nil
}

func profileSetCmd() *cobra.Command {
	var first, last, email string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the owner's name and email",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			user := model.UserProfile{}
			if current := a.store.Snapshot().User; current != nil {
				user = *current
			}
			if cmd.Flags().Changed("first") {
				user.FirstName = strings.TrimSpace(first)
			}
			if cmd.Flags().Changed("last") {
				user.LastName = strings.TrimSpace(last)
			}
			if cmd.Flags().Changed("email") {
				user.Email = strings.TrimSpace(email)
				if user.Email != "" {
					if _, err := mail.ParseAddress(user.Email); err != nil {
						return common.NewUserError("Email address is not valid", err)
					}
				}
			}

			if err := a.store.UpdateUser(cmd.Context(), &user); err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess("Profile saved for "+user.FullName()))
			return nil
		}),
	}
	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show or change reminder and alert settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show notification settings",
		Args:  cobra.NoArgs,
		RunE:  withApp(showProfile),
	})
	cmd.AddCommand(notificationsSetCmd())
	return cmd
}

func notificationsSetCmd() *cobra.Command {
	var (
		daily, alerts, ai bool
		at                string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change notification settings",
		Example: `  parayon notifications set --daily=false
  parayon notifications set --time 21:30 --ai=true`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			n := a.store.Snapshot().Notifications
			flags := cmd.Flags()
			if flags.Changed("daily") {
				n.DailyReminders = daily
			}
			if flags.Changed("alerts") {
				n.BudgetAlerts = alerts
			}
			if flags.Changed("ai") {
				n.AIInsights = ai
			}
			if flags.Changed("time") {
				if _, err := time.Parse("15:04", at); err != nil {
					return common.NewUserError("Reminder time must look like 20:00", err)
				}
				n.ReminderTime = at
			}

			if err := a.store.UpdateNotifications(cmd.Context(), n); err != nil {
				return err
			}
			writeln(cmd, cli.FormatSuccess("Notification settings saved"))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&daily, "daily", true, "Daily reminders")
	cmd.Flags().BoolVar(&alerts, "alerts", true, "Budget alerts")
	cmd.Flags().BoolVar(&ai, "ai", true, "AI insights")
	cmd.Flags().StringVar(&at, "time", "20:00", "Reminder time (HH:MM)")
	return cmd
}
