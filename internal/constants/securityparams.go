package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	UsernameContextKey  = "username"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Credential Validation
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 255
)

// Cookie Names
const (
	RefreshTokenCookie = "refresh_token"
	AuthTokenCookie    = "auth_token"
	CSRFTokenCookie    = "csrf_token"
)
