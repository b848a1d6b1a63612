package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard 24-hour time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Time12Format is the 12-hour display format used when the 24-hour flag is off
	Time12Format = "3:04 PM"
)
