package constants

import "time"

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyIdentity = "identity"
	ContextKeyTask     = "task"
)

// Authentication
const (
	TokenCookieName = "token"
	DefaultTokenTTL = 24 * time.Hour
	BearerPrefix    = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// AI drafting
const (
	MaxAIGeneratedTasks = 20
)

// TotalCountHeader carries the unpaginated row count of list responses.
const TotalCountHeader = "X-Total-Count"
