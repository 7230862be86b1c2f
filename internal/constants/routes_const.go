package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Authentication Routes
const (
	AuthBasePath      = "/api/auth"
	AuthRegisterPath  = "/api/auth/signup"
	AuthLoginPath     = "/api/auth/login"
	AuthRefreshPath   = "/api/auth/refresh"
	AuthLogoutPath    = "/api/auth/logout"
	AuthLogoutAllPath = "/api/auth/logout-all"
	AuthVerifyPath    = "/api/auth/verify"
)

// User Routes
const (
	UserProfilePath        = "/api/users/me"
	UserChangePasswordPath = "/api/users/me/change-password"
	UserSessionsPath       = "/api/users/me/sessions"
)

// Commitment Routes
const (
	CommitmentBasePath   = "/api/commitment"
	CommitmentStatusPath = "/api/commitment/status"
	CommitmentGoalsPath  = "/api/commitment/goals"
	GoalDetailPath       = "/api/commitment/goals/{goalID}"
	GoalLockPath         = "/api/commitment/goals/{goalID}/lock"
)

// State and Profile Routes
const (
	AppStatePath             = "/api/state"
	ProfilePath              = "/api/profile"
	NotificationSettingsPath = "/api/settings/notifications"
	NotificationSchedulePath = "/api/notifications/schedule"
)

// Backup Routes
const (
	BackupExportPath = "/api/backup/export"
	BackupImportPath = "/api/backup/import"
)
