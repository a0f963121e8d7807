package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cinebook/internal/payments"
	"cinebook/internal/reservations"
	"cinebook/internal/shows"
	"cinebook/internal/users"

	"github.com/google/uuid"
)

// UserDirectory resolves a user id to a person. Satisfied by the users
// repository; declared here so notifications does not pull in persistence
// details it does not need.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// ShowDirectory resolves show details for the email body.
type ShowDirectory interface {
	GetShow(ctx context.Context, id uuid.UUID) (*shows.ShowResponse, error)
}

// SettlementNotifier turns settlement outcomes into queued emails. It sits
// behind the payments Notifier interface, so a broken broker or a missing
// user record can never fail a settlement; problems here are logged and
// dropped.
type SettlementNotifier struct {
	service NotificationService
	userDir UserDirectory
	showDir ShowDirectory
}

func NewSettlementNotifier(service NotificationService, userDir UserDirectory, showDir ShowDirectory) *SettlementNotifier {
	return &SettlementNotifier{
		service: service,
		userDir: userDir,
		showDir: showDir,
	}
}

func (n *SettlementNotifier) NotifyReservationConfirmed(ctx context.Context, reservation *reservations.Reservation, receipt *payments.Receipt) {
	user, err := n.userDir.GetUserByID(ctx, reservation.UserID)
	if err != nil {
		log.Printf("Failed to resolve user for confirmation email (reservation %s): %v", reservation.ID, err)
		return
	}

	data := map[string]interface{}{
		"reservation_ref": reservation.ReservationRef,
		"seats":           strings.Join(reservation.SeatLabels(), ", "),
		"total":           formatAmount(reservation.TotalCents, reservation.Currency),
		"movie_title":     "your show",
		"show_time":       "",
	}
	if show, err := n.showDir.GetShow(ctx, reservation.ShowID); err == nil {
		data["movie_title"] = show.MovieTitle
		data["show_time"] = show.StartsAt.Format(time.RFC1123)
	}

	builder := NewNotificationBuilder().
		WithType(NotificationTypeReservationConfirmed).
		WithRecipient(user.ID, user.Email, user.FirstName).
		WithSubject(fmt.Sprintf("✅ Reservation Confirmed - %s", reservation.ReservationRef)).
		WithReservationContext(reservation.ID, reservation.ShowID).
		WithTemplateData(data)
	if receipt != nil {
		builder.WithReceiptContext(receipt.ID)
	}

	if err := n.service.SendNotification(ctx, builder.Build()); err != nil {
		log.Printf("Failed to queue confirmation email for reservation %s: %v", reservation.ID, err)
	}
}

func (n *SettlementNotifier) NotifyReservationCancelled(ctx context.Context, reservation *reservations.Reservation) {
	user, err := n.userDir.GetUserByID(ctx, reservation.UserID)
	if err != nil {
		log.Printf("Failed to resolve user for cancellation email (reservation %s): %v", reservation.ID, err)
		return
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeReservationCancelled).
		WithRecipient(user.ID, user.Email, user.FirstName).
		WithSubject(fmt.Sprintf("❌ Reservation Cancelled - %s", reservation.ReservationRef)).
		WithReservationContext(reservation.ID, reservation.ShowID).
		WithTemplateData(map[string]interface{}{
			"reservation_ref": reservation.ReservationRef,
		}).
		Build()

	if err := n.service.SendNotification(ctx, notification); err != nil {
		log.Printf("Failed to queue cancellation email for reservation %s: %v", reservation.ID, err)
	}
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, float64(cents)/100)
}
