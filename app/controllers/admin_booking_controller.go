package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
)

// HandleAdminListBookings returns all bookings with client and moodboard
// details.
func HandleAdminListBookings(c *fiber.Ctx) error {
	offset, limit := parsePaging(c)
	repos := repository.GetGlobalRepositories()

	list, err := repos.Booking.GetAll(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load bookings")
	}
	total, err := repos.Booking.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count bookings")
	}
	return c.JSON(fiber.Map{"bookings": list, "total": total})
}

// HandleAdminGetBooking returns one booking with payments and all relations.
func HandleAdminGetBooking(c *fiber.Ctx) error {
	booking, err := repository.GetGlobalFactory().GetBookingRepository().GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking")
	}
	return c.JSON(booking)
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

// HandleAdminUpdateBookingStatus moves a booking between lifecycle states.
// Payment-driven transitions (pending -> confirmed) happen in the payments
// service; this endpoint covers the manual transitions an operator makes.
func HandleAdminUpdateBookingStatus(c *fiber.Ctx) error {
	var req bookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	switch req.Status {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted, models.BookingStatusCancelled:
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "status must be confirmed, completed or cancelled")
	}

	repos := repository.GetGlobalRepositories()
	booking, err := repos.Booking.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking")
	}

	// A paid booking cannot be pushed back below confirmed.
	if booking.DepositPaid && req.Status == models.BookingStatusCancelled {
		return jsonError(c, fiber.StatusBadRequest, "not_cancellable", "Deposit already collected, refund flow is manual")
	}

	booking.Status = req.Status
	if err := repos.Booking.Update(booking); err != nil {
		log.Errorf("booking status change failed for %s: %v", booking.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save booking")
	}

	if req.Status == models.BookingStatusCancelled {
		if err := repos.Moodboard.SetBooked(booking.MoodboardID, false); err != nil {
			log.Warnf("could not release moodboard %s: %v", booking.MoodboardID, err)
		}
	}

	return c.JSON(booking)
}

// HandleAdminListPayments returns the payment ledger, newest first.
func HandleAdminListPayments(c *fiber.Ctx) error {
	offset, limit := parsePaging(c)
	repos := repository.GetGlobalRepositories()

	list, err := repos.Payment.GetRecent(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load payments")
	}
	total, err := repos.Payment.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count payments")
	}
	return c.JSON(fiber.Map{"payments": list, "total": total})
}

// HandleAdminListClients returns client profiles. A ?q= query switches to
// search.
func HandleAdminListClients(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	if query := c.Query("q"); query != "" {
		list, err := repos.Profile.Search(query)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Search failed")
		}
		return c.JSON(fiber.Map{"clients": list})
	}

	offset, limit := parsePaging(c)
	list, err := repos.Profile.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load clients")
	}
	total, err := repos.Profile.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not count clients")
	}
	return c.JSON(fiber.Map{"clients": list, "total": total})
}
