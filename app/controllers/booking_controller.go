package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/app/repository"
	"github.com/latpategaurav/blu/internal/pkg/payments"
	"github.com/latpategaurav/blu/internal/pkg/usercontext"
)

type createBookingRequest struct {
	MoodboardID  string `json:"moodboardId"`
	ModelID      string `json:"modelId"`
	BookingDate  string `json:"bookingDate"` // YYYY-MM-DD, defaults to the moodboard date
	ProductCount int    `json:"productCount"`
	Location     string `json:"location"`
	Requirements string `json:"requirements"`
}

// HandleCreateBooking creates a pending booking for the caller. Pricing is
// derived server-side from the moodboard's booking price; client-sent amounts
// are never trusted.
func HandleCreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.MoodboardID == "" || req.ModelID == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "moodboardId and modelId are required")
	}
	if req.ProductCount < 1 {
		req.ProductCount = 1
	}

	repos := repository.GetGlobalRepositories()

	moodboard, err := repos.Moodboard.GetByID(req.MoodboardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Moodboard not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load moodboard")
	}
	if moodboard.Status != models.MoodboardStatusPublished || !moodboard.IsActive {
		return jsonError(c, fiber.StatusBadRequest, "not_bookable", "Moodboard is not open for booking")
	}

	taken, err := repos.Booking.HasActiveForMoodboard(moodboard.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not check availability")
	}
	if moodboard.IsBooked || taken {
		return jsonError(c, fiber.StatusConflict, "already_booked", "This shoot date is already booked")
	}

	model, err := repos.Model.GetByID(req.ModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Model not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load model")
	}
	if !model.IsActive {
		return jsonError(c, fiber.StatusBadRequest, "not_bookable", "Model is not available for booking")
	}

	bookingDate := moodboard.Date
	if req.BookingDate != "" {
		parsed, err := parseDate(req.BookingDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "bookingDate must be YYYY-MM-DD")
		}
		bookingDate = &parsed
	}
	if bookingDate == nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Moodboard has no scheduled date, bookingDate is required")
	}

	total := moodboard.BookingPrice * int64(req.ProductCount)
	if total <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "not_bookable", "Moodboard has no booking price set")
	}

	userCtx := usercontext.GetUserContext(c)
	booking := &models.Booking{
		ClientID:      userCtx.UserID,
		ModelID:       model.ID,
		MoodboardID:   moodboard.ID,
		BookingDate:   *bookingDate,
		ProductCount:  req.ProductCount,
		Location:      req.Location,
		Requirements:  req.Requirements,
		Status:        models.BookingStatusPending,
		TotalAmount:   total,
		DepositAmount: payments.ComputeDeposit(total),
	}
	if err := booking.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repos.Booking.Create(booking); err != nil {
		log.Errorf("booking creation failed for moodboard %s: %v", moodboard.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// HandleListMyBookings returns the caller's bookings, newest first.
func HandleListMyBookings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePaging(c)

	bookings, err := repository.GetGlobalFactory().GetBookingRepository().
		GetByClientID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load bookings")
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// HandleGetBooking returns one of the caller's bookings with its payments.
func HandleGetBooking(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	booking, err := repository.GetGlobalFactory().GetBookingRepository().GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking")
	}
	if booking.ClientID != userCtx.UserID && !userCtx.IsAdmin {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Booking belongs to another client")
	}
	return c.JSON(booking)
}

// HandleCancelBooking cancels one of the caller's bookings. Completed
// bookings cannot be cancelled; the row itself is never deleted.
func HandleCancelBooking(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	booking, err := repos.Booking.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking")
	}
	if booking.ClientID != userCtx.UserID && !userCtx.IsAdmin {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Booking belongs to another client")
	}
	if booking.Status == models.BookingStatusCompleted {
		return jsonError(c, fiber.StatusBadRequest, "not_cancellable", "Completed bookings cannot be cancelled")
	}

	if err := repos.Booking.Cancel(booking.ID); err != nil {
		log.Errorf("booking cancellation failed for %s: %v", booking.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not cancel booking")
	}

	// Free the shoot date again if the deposit never landed.
	if !booking.DepositPaid {
		if err := repos.Moodboard.SetBooked(booking.MoodboardID, false); err != nil {
			log.Warnf("could not release moodboard %s after cancellation: %v", booking.MoodboardID, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "status": models.BookingStatusCancelled})
}

// HandleListBookingPayments returns the payment attempts for one of the
// caller's bookings.
func HandleListBookingPayments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	booking, err := repos.Booking.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load booking")
	}
	if booking.ClientID != userCtx.UserID && !userCtx.IsAdmin {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Booking belongs to another client")
	}

	list, err := repos.Payment.GetByBookingID(booking.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load payments")
	}
	return c.JSON(fiber.Map{"payments": list})
}
