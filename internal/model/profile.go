package model

// UserProfile identifies the single owner of the ledger.
type UserProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName returns the display name of the user.
func (u UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// NotificationSettings holds the reminder and alert toggles.
type NotificationSettings struct {
	ReminderTime   string `json:"reminderTime"`
	DailyReminders bool   `json:"dailyReminders"`
	BudgetAlerts   bool   `json:"budgetAlerts"`
	AIInsights     bool   `json:"aiInsights"`
}

// DefaultNotifications returns the notification configuration of a fresh ledger.
func DefaultNotifications() NotificationSettings {
	return NotificationSettings{
		DailyReminders: true,
		BudgetAlerts:   true,
		AIInsights:     true,
		ReminderTime:   "20:00",
	}
}
