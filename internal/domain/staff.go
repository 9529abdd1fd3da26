package domain

// AlertPreference controls which alert severities a contact receives.
// It is a closed set so recipient filtering can match exhaustively when new
// tiers are added.
type AlertPreference string

const (
	PreferenceAll          AlertPreference = "ALL"
	PreferenceCriticalOnly AlertPreference = "CRITICAL_ONLY"
)

// Represents a staff member who can be notified about excursions.
// Read-only input to alert routing; the roster is always passed explicitly.
type StaffContact struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Preference AlertPreference `json:"alert_preference"`
}
