package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/latpategaurav/blu/internal/pkg/session"
	"github.com/latpategaurav/blu/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a UserContext for every
// request. Webhook routes carry no session; they pass through as anonymous
// and authenticate via payload signatures instead.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	userID, _ := sess.Get(usercontext.KeyUserID).(string)
	if userID == "" {
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	phone, _ := sess.Get(usercontext.KeyUserPhone).(string)
	name, _ := sess.Get(usercontext.KeyUserName).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(string)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:     userID,
		Phone:      phone,
		Name:       name,
		IsLoggedIn: true,
		IsAdmin:    isAdmin == "true",
	})

	return c.Next()
}
