package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Saju/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Saju"
	AppID             = "com.github.tartampluch.go-saju"
	KeyringService    = "com.github.tartampluch.go-saju"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// FilePermPublic is used for exported calendars meant to be shared.
	FilePermPublic fs.FileMode = 0644

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot     = "go-saju"
	CmdChart    = "chart"
	CmdDaeun    = "daeun"
	CmdSaeun    = "saeun"
	CmdCurve    = "curve"
	CmdCalendar = "calendar"
	CmdBatch    = "batch"
	CmdServe    = "serve"
	CmdVersion  = "version"

	FlagDebug    = "debug"
	FlagLang     = "lang"
	FlagYear     = "year"
	FlagMonth    = "month"
	FlagDay      = "day"
	FlagHour     = "hour"
	FlagMinute   = "minute"
	FlagGender   = "gender"
	FlagLunar    = "lunar"
	FlagDST      = "dst"
	FlagFrom     = "from"
	FlagTo       = "to"
	FlagOutput   = "output"
	FlagReminder = "reminder"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagPassword = "password"
	FlagWorkers  = "workers"
	FlagPort     = "port"
	FlagSeed     = "seed"
	FlagJitter   = "jitter"
	FlagJSON     = "json"
	FlagFormat   = "format"
	FlagFile     = "file"

	FlagDescDebug    = "Enable debug logging"
	FlagDescLang     = "Output language (en, ko)"
	FlagDescYear     = "Birth year (civil, Korea Standard Time)"
	FlagDescMonth    = "Birth month (1-12)"
	FlagDescDay      = "Birth day of month"
	FlagDescHour     = "Birth hour (0-23)"
	FlagDescMinute   = "Birth minute (0-59)"
	FlagDescGender   = "Gender (male|female), required for fortune cycles"
	FlagDescLunar    = "Mark the input date as lunar (recorded, not converted)"
	FlagDescDST      = "Daylight-saving override: auto, on or off"
	FlagDescFrom     = "First year to project"
	FlagDescTo       = "Last year to project"
	FlagDescOutput   = "Write output to this file instead of stdout"
	FlagDescReminder = "ISO 8601 alarm trigger for calendar events (e.g. -P1D)"
	FlagDescURL      = "Fetch the vCard file from this URL"
	FlagDescUser     = "HTTP Basic Auth user for --url"
	FlagDescPassword = "HTTP Basic Auth password for --url (defaults to the OS keyring)"
	FlagDescWorkers  = "Maximum charts computed in parallel"
	FlagDescPort     = "Port of the calendar server"
	FlagDescSeed     = "Seed for curve jitter (0 disables jitter)"
	FlagDescJitter   = "Jitter amplitude applied with --seed"
	FlagDescJSON     = "Print the chart as JSON"
	FlagDescFormat   = "Batch output format: json or ics"
	FlagDescFile     = "Serve the calendar of every contact in this vCard file"

	FormatJSON = "json"
	FormatICS  = "ics"

	DSTAuto = "auto"
	DSTOn   = "on"
	DSTOff  = "off"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvPrefix = "GO_SAJU_"
)

// -----------------------------------------------------------------------------
// Locales
// -----------------------------------------------------------------------------

const (
	LocaleDir    = "locales"
	LocalePrefix = "active."
	LocaleSuffix = ".json"
)

// SupportedLanguages defines the list of available output languages (ISO 639-1).
var SupportedLanguages = []string{"en", "ko"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyStemPrefix      = "stem_"
	TKeyBranchPrefix    = "branch_"
	TKeyPillarFormat    = "pillar_format" // Requires Stem, Branch
	TKeyElementPrefix   = "element_"
	TKeyDimensionPrefix = "dimension_"
	TKeyPhasePrefix     = "phase_"
	TKeyDirectionPrefix = "direction_"
	TKeyEvtSaeun        = "event_saeun" // Requires Year, Pillar
	TKeyEvtDaeun        = "event_daeun" // Requires From, To, Pillar
	TKeyCalName         = "calendar_name"
	TKeyLblPillars      = "label_pillars"
	TKeyLblBalance      = "label_balance"
	TKeyLblDaeun        = "label_daeun"
	TKeyLblLowConf      = "label_low_confidence"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort          = "18080"
	DefaultLanguage      = "en"
	DefaultCalendarYears = 10
	DefaultBatchWorkers  = 4
	MaxBatchWorkers      = 64
	MaxDecodeFailures    = 100 // Consecutive vCard decode errors before a batch gives up
	UIDSalt              = "go-saju-v1-" // Salt for deterministic UID generation
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Saju//Engine//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gosaju"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategorySaeun = "SAEUN"
	CategoryDaeun = "DAEUN"

	VCardBDAY   = "BDAY"
	VCardFN     = "FN"
	VCardN      = "N"
	VCardGender = "GENDER"

	DefaultICalRefresh = 24 * time.Hour

	// DefaultCurveJitter is the amplitude used when --seed is set without
	// --jitter.
	DefaultCurveJitter = 0.1
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields. Layouts without a
	// clock time leave the birth hour unknown.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatLocalT    = "2006-01-02T15:04:05"
	DateFormatLocalHM   = "2006-01-02T15:04"
	DateFormatBasicT    = "20060102T150405"
	DateFormatBasicHM   = "20060102T1504"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s-%d@%s"

	// File Extensions
	ExtVCF = ".vcf"
	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteChart          = "/chart"
	RouteHealth         = "/healthz"
	AddrSeparator       = ":"

	// Query parameters accepted by the chart endpoint.
	QueryYear   = "year"
	QueryMonth  = "month"
	QueryDay    = "day"
	QueryHour   = "hour"
	QueryMinute = "minute"
	QueryGender = "gender"
	QueryLunar  = "lunar"
	QueryDST    = "dst"
	QueryLang   = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAcceptLanguage  = "Accept-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	HealthOK = "ok"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrSourceEmpty    = "configuration error: no vCard source given"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrInvalidURL     = "invalid URL structure"
	ErrRequest        = "failed to create request"
	ErrNetwork        = "network error during fetch"
	ErrStatus         = "server returned unexpected status"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrYearRange      = "invalid year range"
	ErrChart          = "chart computation failed"
	ErrEnv            = "failed to read environment settings"
	ErrDSTMode        = "invalid daylight-saving mode (auto|on|off)"
	ErrFormat         = "unsupported output format (json|ics)"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrWriteOutput    = "failed to write output"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are produced.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgBatchStarted  = "Batch import started"
	MsgBatchDone     = "Batch import finished"
	MsgChartBuilt    = "Chart computed"
	MsgLowConfidence = "Birth date lies next to a solar-term boundary; month pillar is approximate"
	MsgNoGender      = "Contact has no usable gender, fortune cycles skipped"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedChart  = "Skipping contact whose chart could not be computed"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgBadRequest    = "Rejected chart request"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchStatus   = "Server returned error status"
	MsgFetchOK       = "vCards downloading"
	MsgFeedRefresh   = "Refreshing calendar feed"
	MsgFeedFailed    = "Calendar feed refresh failed, keeping previous version"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeySource    = "source"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyCharts    = "charts"
	LogKeyEvents    = "events"
	LogKeyWorkers   = "workers"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyPillars   = "pillars"
	LogKeyDST       = "dst_offset_min"
	LogKeyFrom      = "from_year"
	LogKeyTo        = "to_year"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine   = "engine"
	CompCalendar = "calendar"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompLocale   = "locale"
)
