package models

// Settings represents application-wide settings
type Settings struct {
	IntervalHours        int    `json:"interval_hours"`        // fixed slot length in hours; 0 selects auto mode
	Display24h           bool   `json:"display_24h"`           // whether to render times in 24-hour format
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether to notify when a slot becomes available
	Timezone             string `json:"timezone"`              // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
}

// Auto reports whether adaptive slot sizing is selected.
func (s Settings) Auto() bool {
	return s.IntervalHours == 0
}
