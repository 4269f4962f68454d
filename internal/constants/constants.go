package constants

import "time"

// InputLine identifies one of the four live input lines on the engine
type InputLine string

// ColorClass is the display classification of a schedule entry
type ColorClass string

// SaveResult is the tagged response of a schedule save
type SaveResult string

// SessionState represents the current view of the TUI application
type SessionState int

const (
	AppName            = "cloudcast"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/cloudcast/cloudcast.db"
	Version            = "v0.3.0"
	EnvPrefix          = "CLOUDCAST"

	// DateFormat is the calendar date format used by the station server (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is the timestamp format used by the station server
	DateTimeFormat = "2006-01-02 15:04:05"

	// DateTimeMinuteFormat is the short timestamp form the server emits for show boundaries
	DateTimeMinuteFormat = "2006-01-02 15:04"

	// ClockFormat is the time-of-day format of the "updated at" display
	ClockFormat = "15:04:05"

	// ZeroDuration is the canonical empty HH:MM:SS duration
	ZeroDuration = "00:00:00"

	// Polling intervals
	StatusPollInterval      = 5 * time.Second
	StatusTickInterval      = time.Second
	ScheduleRefreshInterval = 5 * time.Second
	DefaultRequestTimeout   = 10 * time.Second

	// FocusQueueDepth selects the 4th-from-last queued entry as the focus target
	FocusQueueDepth = 4

	// Defaults
	DefaultServerURL   = "http://127.0.0.1:8080"
	DefaultAutoRefresh = true
	DefaultAutoFocus   = true
	DefaultHistorySize = 20
	MockServerAddr     = "127.0.0.1:8080"

	// Settings keys
	SettingAutoRefresh = "auto_refresh"
	SettingAutoFocus   = "auto_focus"

	// Lock constants
	LockfileName = "cloudcast.lock"

	// Input lines
	InputSchedule InputLine = "schedule"
	InputShow     InputLine = "show"
	InputTalkover InputLine = "talkover"
	InputMaster   InputLine = "master"

	// Color classes
	ColorSkipped ColorClass = "danger"
	ColorPlayed  ColorClass = "success"
	ColorQueued  ColorClass = "warning"
	ColorPromo   ColorClass = "muted"
	ColorNone    ColorClass = ""

	// Save results
	SaveSuccess           SaveResult = "SUCCESS"
	SaveScheduleNotFound  SaveResult = "SCHEDULE_NOT_FOUND"
	SaveScheduleOutOfSync SaveResult = "SCHEDULE_OUT_OF_SYNC"

	// Operator messages for rejected saves
	MessageScheduleMissing   = "Schedule not found. Please refresh and try again."
	MessageScheduleOutOfSync = "Schedule out of sync. Please refresh and try again."
)

// Session States
const (
	StateNow SessionState = iota
	StateSchedules
	StateFinder
	StateSetPost
	StateConfirmDeactivate
)

// InputLines lists the input lines in display order
var InputLines = []InputLine{InputSchedule, InputShow, InputTalkover, InputMaster}

// PromoGenres are the file genres shown muted in a schedule
var PromoGenres = []string{"Bumper", "Sweeper", "Intro", "Ad"}
