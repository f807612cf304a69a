package constants

// Context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// HeaderIdempotencyKey lets clients make complaint creation safely repeatable.
const HeaderIdempotencyKey = "Idempotency-Key"
