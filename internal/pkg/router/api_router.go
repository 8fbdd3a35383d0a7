package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/latpategaurav/blu/app/controllers"
	"github.com/latpategaurav/blu/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "blu api",
		})
	})

	v1 := api.Group("/v1")

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/otp/request", controllers.HandleRequestOTP)
	auth.Post("/otp/verify", controllers.HandleVerifyOTP)
	auth.Post("/admin/login", controllers.HandleAdminLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/me", middleware.RequireAuth, controllers.HandleMe)
	auth.Put("/me", middleware.RequireAuth, controllers.HandleUpdateProfile)

	// Catalog (public reads)
	v1.Get("/moodboards/calendar", controllers.HandleMoodboardCalendar)
	v1.Get("/moodboards", controllers.HandleListMoodboards)
	v1.Get("/moodboards/:id", controllers.HandleGetMoodboard)
	v1.Get("/moodboards/:id/similar", controllers.HandleGetSimilarMoodboards)
	v1.Get("/models", controllers.HandleListModels)
	v1.Get("/models/:id", controllers.HandleGetModel)

	// Bookings
	bookings := v1.Group("/bookings", middleware.RequireAuth)
	bookings.Post("/", controllers.HandleCreateBooking)
	bookings.Get("/", controllers.HandleListMyBookings)
	bookings.Get("/:id", controllers.HandleGetBooking)
	bookings.Post("/:id/cancel", controllers.HandleCancelBooking)
	bookings.Get("/:id/payments", controllers.HandleListBookingPayments)

	// Payments. The webhook stays outside RequireAuth: the gateway
	// authenticates with the payload signature, not a session.
	paymentsGroup := v1.Group("/payments")
	paymentsGroup.Post("/webhook", controllers.HandlePaymentWebhook)
	paymentsGroup.Post("/create-order", middleware.RequireAuth, controllers.HandleCreateOrder)
	paymentsGroup.Post("/verify", middleware.RequireAuth, controllers.HandleVerifyPayment)

	// Notifications
	notifications := v1.Group("/notifications", middleware.RequireAuth)
	notifications.Get("/", controllers.HandleListNotifications)
	notifications.Post("/read-all", controllers.HandleMarkAllNotificationsRead)
	notifications.Post("/:id/read", controllers.HandleMarkNotificationRead)
	notifications.Delete("/:id", controllers.HandleDeleteNotification)

	// Admin
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/dashboard", controllers.HandleAdminDashboard)
	admin.Post("/payments/expire-stale", controllers.HandleAdminExpireStalePayments)
	admin.Get("/payments", controllers.HandleAdminListPayments)
	admin.Get("/clients", controllers.HandleAdminListClients)

	admin.Get("/moodboards", controllers.HandleAdminListMoodboards)
	admin.Post("/moodboards", controllers.HandleAdminCreateMoodboard)
	admin.Put("/moodboards/:id", controllers.HandleAdminUpdateMoodboard)
	admin.Post("/moodboards/:id/status", controllers.HandleAdminSetMoodboardStatus)
	admin.Delete("/moodboards/:id", controllers.HandleAdminDeleteMoodboard)
	admin.Post("/moodboards/:id/models", controllers.HandleAdminAssignModel)
	admin.Delete("/moodboards/:id/models/:modelId", controllers.HandleAdminUnassignModel)
	admin.Post("/moodboards/:id/similar", controllers.HandleAdminSetSimilar)

	admin.Get("/models", controllers.HandleAdminListModels)
	admin.Post("/models", controllers.HandleAdminCreateModel)
	admin.Put("/models/:id", controllers.HandleAdminUpdateModel)
	admin.Delete("/models/:id", controllers.HandleAdminDeleteModel)

	admin.Get("/bookings", controllers.HandleAdminListBookings)
	admin.Get("/bookings/:id", controllers.HandleAdminGetBooking)
	admin.Post("/bookings/:id/status", controllers.HandleAdminUpdateBookingStatus)

	admin.Post("/uploads", controllers.HandleAdminUploadImage)

	admin.Get("/cache/keys", controllers.HandleAdminListCacheKeys)
	admin.Get("/cache/value", controllers.HandleAdminGetCacheValue)
	admin.Delete("/cache", controllers.HandleAdminFlushCache)

	admin.Get("/settings", controllers.HandleAdminListSettings)
	admin.Post("/settings", controllers.HandleAdminSetSetting)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
