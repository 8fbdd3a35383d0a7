package payments

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/latpategaurav/blu/app/models"
	"github.com/latpategaurav/blu/internal/pkg/mail"
)

// ConfirmationNotifier fires the best-effort side channel after a booking is
// confirmed. Implementations must never fail loudly: the confirmation is
// already durably committed when this runs.
type ConfirmationNotifier interface {
	BookingConfirmed(ctx context.Context, bookingID string)
}

// Emitter writes an in-app notification row and sends a confirmation email.
type Emitter struct {
	repo     Repository
	sendMail func(to, subject, body string) error
}

func NewEmitter(repo Repository) *Emitter {
	return &Emitter{repo: repo, sendMail: mail.SendMail}
}

func (e *Emitter) BookingConfirmed(ctx context.Context, bookingID string) {
	booking, err := e.repo.GetBooking(bookingID)
	if err != nil {
		log.Warnf("notify booking %s confirmed: load failed: %v", bookingID, err)
		return
	}

	notification := &models.Notification{
		UserID:            booking.ClientID,
		Type:              models.NotificationTypePayment,
		Title:             "Payment Successful",
		Message:           "Your booking deposit has been paid successfully. We will contact you within 24 hours.",
		RelatedEntityType: "booking",
		RelatedEntityID:   booking.ID,
	}
	if err := e.repo.CreateNotification(notification); err != nil {
		log.Warnf("notify booking %s confirmed: notification insert failed: %v", bookingID, err)
	}

	if booking.Client.Email == "" {
		return
	}
	if err := e.sendMail(booking.Client.Email, "Your Space Called Blu Booking is Confirmed!", confirmationEmailBody(booking)); err != nil {
		log.Warnf("notify booking %s confirmed: email failed: %v", bookingID, err)
	}
}

func confirmationEmailBody(b *models.Booking) string {
	name := b.Client.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<h2>Booking Confirmed</h2>
<p>Hi %s,</p>
<p>Your booking is confirmed. Here are your details:</p>
<ul>
  <li><strong>Moodboard:</strong> %s</li>
  <li><strong>Model:</strong> %s</li>
  <li><strong>Booking Date:</strong> %s</li>
  <li><strong>Product Count:</strong> %d</li>
  <li><strong>Total Amount:</strong> &#8377;%d</li>
  <li><strong>Deposit Paid:</strong> &#8377;%d</li>
</ul>
<p>We look forward to seeing you at Space Called Blu!</p>`,
		name,
		b.Moodboard.Title,
		b.Model.Name,
		b.BookingDate.Format("02 Jan 2006"),
		b.ProductCount,
		b.TotalAmount,
		b.DepositAmount,
	)
}
