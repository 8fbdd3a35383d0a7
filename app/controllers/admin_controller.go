package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/database"
	"github.com/latpategaurav/blu/internal/pkg/payments"
)

// HandleAdminDashboard aggregates the headline numbers for the admin
// dashboard.
func HandleAdminDashboard(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	clients, err := repos.Profile.CountByRole(models.ROLE_CLIENT)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load client count")
	}
	moodboards, err := repos.Moodboard.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboard count")
	}
	published, err := repos.Moodboard.CountPublished()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load published count")
	}
	modelCount, err := repos.Model.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load model count")
	}
	bookings, err := repos.Booking.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking count")
	}
	confirmed, err := repos.Booking.CountByStatus(models.BookingStatusConfirmed)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load confirmed count")
	}
	pendingPayments, err := repos.Payment.CountByStatus(models.PaymentStatusPending)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load payment count")
	}
	revenue, err := repos.Payment.SumCompleted()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load revenue")
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	daily, err := repos.Booking.GetDailyStats(start, end)
	if err != nil {
		log.Warnf("daily stats unavailable: %v", err)
	}

	return c.JSON(fiber.Map{
		"clients":            clients,
		"moodboards":         moodboards,
		"published":          published,
		"models":             modelCount,
		"bookings":           bookings,
		"confirmed_bookings": confirmed,
		"pending_payments":   pendingPayments,
		"revenue":            revenue,
		"daily":              daily,
	})
}

// HandleAdminExpireStalePayments sweeps pending payments older than the
// given TTL (?hours=, default 24) into the failed state.
func HandleAdminExpireStalePayments(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours < 1 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "hours must be at least 1")
	}

	svc := payments.NewServiceFromDB(database.GetDB())
	expired, err := svc.ExpireStalePayments(time.Duration(hours) * time.Hour)
	if err != nil {
		log.Errorf("stale payment sweep failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Sweep failed")
	}

	return c.JSON(fiber.Map{"expired": expired})
}
