package constants

// Session and context keys
const (
	SessionCookieName     = "projectdesk_session"
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyTask        = "task"
	ContextKeyProject     = "project"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
	RecentActivityLimit = 50
)
