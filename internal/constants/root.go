package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "prodlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/prodlog/prodlog.db"
	Version            = "v0.3.0"

	// Persisted store keys. Values are opaque JSON blobs; the owning service
	// decodes them and falls back to defaults on corrupt data.
	KeySettings       = "settings"
	KeyCategories     = "categories"
	KeySlotLog        = "slot_log"
	KeyDailyPoints    = "daily_points"
	KeyCategoryPoints = "category_points"
	KeyOnboarded      = "onboarded"

	// IntervalAuto is the sentinel interval setting selecting adaptive slot
	// sizing instead of a fixed hour count.
	IntervalAuto = 0

	// DefaultIntervalHours is the fixed slot length applied on first run.
	DefaultIntervalHours = 3

	// RecentLogWindowHours bounds how far back candidate slots are generated
	// and how far back the reset-logs operation reaches.
	RecentLogWindowHours = 36

	// CategoryGraceDays is how long a soft-deleted category stays visible in
	// allocation views before it drops out of active queries.
	CategoryGraceDays = 7

	// DefaultPointsPerMinute is the weight assigned to new and built-in
	// categories unless the user says otherwise.
	DefaultPointsPerMinute = 5.0

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "prodlog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "prodlog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.jmuslu.prodlog"

	// Default Settings Values
	DefaultDisplay24h           = false
	DefaultNotificationsEnabled = true
	DefaultTimezone             = "Local" // Use system local timezone by default
)

// Session States
const (
	StateLog SessionState = iota
	StateCompleted
	StateDashboard
	StateSettings
	StateAllocating
	StateAddCategory
	StateEditSettings
	StateConfirmReset

	// NumMainTabs is the count of cycleable top-level tabs; the remaining
	// states are modal overlays.
	NumMainTabs = 4
)

var (
	// AvailableIntervals is the fixed-mode interval menu, in hours.
	AvailableIntervals = []int{1, 2, 3, 4, 6, 12}

	// AutoDurations is the candidate duration menu for auto mode, tried
	// largest first.
	AutoDurations = []int{12, 8, 6, 4, 3, 2, 1}
)
