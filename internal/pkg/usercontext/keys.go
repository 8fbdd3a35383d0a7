package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID    = "user_id"
	KeyUserPhone = "user_phone"
	KeyUserName  = "user_name"
	KeyIsAdmin   = "is_admin"
)
