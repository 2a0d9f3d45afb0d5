package settings

// Platform setting keys and defaults.
const (
	// SiteNameKey is the setting key for the platform display name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback platform display name.
	DefaultSiteName = "CampusFront"
	// PublicBaseURLKey is the setting key for the public base URL used in
	// signup links.
	PublicBaseURLKey = "PUBLIC_BASE_URL"
	// DefaultPublicBaseURL is the fallback public base URL.
	DefaultPublicBaseURL = "http://localhost:8080"
	// InviteValidityDaysKey controls the invitation validity window in days.
	InviteValidityDaysKey = "INVITE_VALIDITY_DAYS"
	// DefaultInviteValidityDays is the fallback invitation validity window.
	DefaultInviteValidityDays = 7
	// AutomatedMessagingKey toggles the automated messaging loop.
	AutomatedMessagingKey = "AUTOMATED_MESSAGING_ENABLED"
	// DefaultAutomatedMessaging sets the automated messaging default.
	DefaultAutomatedMessaging = true
	// RenewalReminderDaysKey controls how many days before expiry renewal
	// reminders go out.
	RenewalReminderDaysKey = "RENEWAL_REMINDER_DAYS"
	// DefaultRenewalReminderDays is the fallback reminder lead time.
	DefaultRenewalReminderDays = 14
)
