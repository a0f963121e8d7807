package payments

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/reservations"
	"cinebook/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	reservations map[uuid.UUID]*reservations.Reservation
	eventIDs     map[string]bool
	receipts     []*Receipt
	snapshot     ShowSnapshot
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		reservations: make(map[uuid.UUID]*reservations.Reservation),
		eventIDs:     make(map[string]bool),
		snapshot: ShowSnapshot{
			MovieTitle:     "Arrival",
			AuditoriumName: "Screen 1",
			StartsAt:       time.Now().Add(24 * time.Hour),
		},
	}
}

func (f *fakeRepository) addPendingReservation(userID uuid.UUID) *reservations.Reservation {
	r := &reservations.Reservation{
		ID:             uuid.New(),
		ReservationRef: "RSV-20260829-ABCDEF",
		UserID:         userID,
		ShowID:         uuid.New(),
		Status:         reservations.StatusPending,
		TotalCents:     2800,
		ExpiresAt:      time.Now().Add(10 * time.Minute),
		Seats: []reservations.ReservationSeat{
			{SeatID: uuid.New(), SeatLabel: "A1", SeatType: venues.SeatTypeStandard, PriceCents: 1400},
			{SeatID: uuid.New(), SeatLabel: "A2", SeatType: venues.SeatTypeStandard, PriceCents: 1400},
		},
	}
	f.reservations[r.ID] = r
	return r
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) InsertSettlementEvent(ctx context.Context, event *SettlementEvent) error {
	if f.eventIDs[event.ProviderEventID] {
		return ErrDuplicateEvent
	}
	f.eventIDs[event.ProviderEventID] = true
	return nil
}

func (f *fakeRepository) LockReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error) {
	if r, ok := f.reservations[reservationID]; ok {
		return r, nil
	}
	return nil, ErrReservationNotFound
}

func (f *fakeRepository) GetReservation(ctx context.Context, reservationID uuid.UUID) (*reservations.Reservation, error) {
	return f.LockReservation(ctx, reservationID)
}

func (f *fakeRepository) GetShowSnapshot(ctx context.Context, showID uuid.UUID) (*ShowSnapshot, error) {
	snapshot := f.snapshot
	return &snapshot, nil
}

func (f *fakeRepository) UpdateReservation(ctx context.Context, reservation *reservations.Reservation) error {
	f.reservations[reservation.ID] = reservation
	return nil
}

func (f *fakeRepository) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	receipt.ID = uuid.New()
	f.receipts = append(f.receipts, receipt)
	return nil
}

func (f *fakeRepository) GetReceiptByReservation(ctx context.Context, reservationID uuid.UUID) (*Receipt, error) {
	for _, r := range f.receipts {
		if r.ReservationID == reservationID {
			return r, nil
		}
	}
	return nil, ErrReceiptNotFound
}

// fakeGateway maps webhook payloads and session ids to scripted facts.
type fakeGateway struct {
	webhookFact *SettlementFact
	webhookErr  error
	verifyFact  *SettlementFact
	sessions    []CheckoutSession
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, reservation *reservations.Reservation, items []CheckoutItem) (*CheckoutSession, error) {
	session := CheckoutSession{SessionID: "cs_test_" + reservation.ReservationRef, CheckoutURL: "https://checkout.example/" + reservation.ReservationRef}
	f.sessions = append(f.sessions, session)
	return &session, nil
}

func (f *fakeGateway) VerifySession(ctx context.Context, sessionID string) (*SettlementFact, error) {
	return f.verifyFact, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, signature string) (*SettlementFact, error) {
	return f.webhookFact, f.webhookErr
}

func paidFact(reservationID uuid.UUID, eventID string) *SettlementFact {
	return &SettlementFact{
		ProviderEventID: eventID,
		ReservationID:   reservationID,
		Outcome:         OutcomePaid,
		AmountCents:     2800,
		Currency:        "USD",
		ProviderRef:     "pi_test_123",
	}
}

func TestHandleWebhook_PaidConfirmsReservation(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	gateway.webhookFact = paidFact(reservation.ID, "evt_1")

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Equal(t, reservations.StatusConfirmed, reservation.Status)
	require.NotNil(t, reservation.ConfirmedAt)
	require.Len(t, repo.receipts, 1)
	receipt := repo.receipts[0]
	assert.Equal(t, int64(2800), receipt.AmountCents)
	assert.Equal(t, "pi_test_123", receipt.ProviderRef)
	assert.Equal(t, reservation.ReservationRef, receipt.ReservationRef)
	assert.Equal(t, "Arrival", receipt.MovieTitle)
	assert.Equal(t, "Screen 1", receipt.AuditoriumName)
	assert.Equal(t, "A1, A2", receipt.SeatSummary)
}

func TestReceiptSurvivesCatalogEdits(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)
	ctx := context.Background()

	owner := uuid.New()
	reservation := repo.addPendingReservation(owner)
	gateway.webhookFact = paidFact(reservation.ID, "evt_1")
	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))

	// Rename the movie and the auditorium after confirmation; the receipt
	// keeps describing what was actually sold.
	repo.snapshot.MovieTitle = "Arrival (Director's Cut)"
	repo.snapshot.AuditoriumName = "Screen 1 Deluxe"

	receipt, err := svc.GetReceipt(ctx, reservation.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, "Arrival", receipt.MovieTitle)
	assert.Equal(t, "Screen 1", receipt.AuditoriumName)
	assert.Equal(t, int64(2800), receipt.AmountCents)
}

func TestHandleWebhook_ReplayedEventAppliedOnce(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	gateway.webhookFact = paidFact(reservation.ID, "evt_1")

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	// Same delivery again; the provider retries until acknowledged.
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Len(t, repo.receipts, 1)
}

func TestHandleWebhook_PaidAfterVerifyKeepsOneReceipt(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	userID := uuid.New()
	reservation := repo.addPendingReservation(userID)

	// The client polled first; the verify fact carries no event envelope.
	fact := paidFact(reservation.ID, "")
	gateway.verifyFact = fact
	resp, err := svc.VerifyPayment(context.Background(), userID, VerifyPaymentRequest{SessionID: "cs_test"})
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusConfirmed.String(), resp.Status)
	require.NotNil(t, resp.Receipt)

	// The webhook for the same payment lands later with a fresh event id.
	gateway.webhookFact = paidFact(reservation.ID, "evt_late")
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Len(t, repo.receipts, 1)
}

func TestHandleWebhook_FailedLeavesHoldAlive(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	fact := paidFact(reservation.ID, "evt_1")
	fact.Outcome = OutcomeFailed
	gateway.webhookFact = fact

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	// The user may retry payment until the hold lapses on its own.
	assert.Equal(t, reservations.StatusPending, reservation.Status)
	assert.Empty(t, repo.receipts)
}

func TestHandleWebhook_RefundCancelsConfirmedOnly(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	refund := paidFact(reservation.ID, "evt_refund_1")
	refund.Outcome = OutcomeRefunded

	// Refund against a PENDING hold is recorded but changes nothing.
	gateway.webhookFact = refund
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	assert.Equal(t, reservations.StatusPending, reservation.Status)

	// Confirm, then refund.
	gateway.webhookFact = paidFact(reservation.ID, "evt_pay")
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	refund2 := paidFact(reservation.ID, "evt_refund_2")
	refund2.Outcome = OutcomeRefunded
	gateway.webhookFact = refund2
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Equal(t, reservations.StatusCancelled, reservation.Status)
	require.NotNil(t, reservation.CancelledAt)
}

func TestHandleWebhook_LatePaymentStillConfirms(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	reservation.Status = reservations.StatusExpired
	reservation.ExpiresAt = time.Now().Add(-time.Hour)

	gateway.webhookFact = paidFact(reservation.ID, "evt_slow")
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	// The completed payment wins over the lapsed hold.
	assert.Equal(t, reservations.StatusConfirmed, reservation.Status)
	assert.Len(t, repo.receipts, 1)
}

func TestHandleWebhook_PaidOnCancelledRecordsOnly(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	reservation.Status = reservations.StatusCancelled

	gateway.webhookFact = paidFact(reservation.ID, "evt_zombie")
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	assert.Equal(t, reservations.StatusCancelled, reservation.Status)
	assert.Empty(t, repo.receipts)
	assert.True(t, repo.eventIDs["evt_zombie"])
}

func TestHandleWebhook_UnhandledEventAcknowledged(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{webhookErr: ErrUnhandledEvent}
	svc := NewService(repo, gateway)

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
}

func TestHandleWebhook_BadSignatureRejected(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{webhookErr: ErrBadSignature}
	svc := NewService(repo, gateway)

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "sig")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyPayment_UnpaidSession(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{} // verifyFact stays nil: session still unpaid
	svc := NewService(repo, gateway)

	// An unpaid session is a successful poll result, not an error.
	resp, err := svc.VerifyPayment(context.Background(), uuid.New(), VerifyPaymentRequest{SessionID: "cs_test"})
	require.NoError(t, err)
	assert.Equal(t, StatusNotPaid, resp.Status)
	assert.Nil(t, resp.Receipt)
	assert.Empty(t, repo.receipts)
}

func TestHandleWebhook_UnknownReservationAcknowledged(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)
	ctx := context.Background()

	gateway.webhookFact = paidFact(uuid.New(), "evt_orphan")

	// Ack and record; erroring here would make the provider redeliver
	// forever for a reservation that will never exist.
	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))
	assert.True(t, repo.eventIDs["evt_orphan"])
	assert.Empty(t, repo.receipts)

	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))
}

func TestVerifyPayment_RejectsForeignReservation(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	reservation := repo.addPendingReservation(uuid.New())
	gateway.verifyFact = paidFact(reservation.ID, "")

	_, err := svc.VerifyPayment(context.Background(), uuid.New(), VerifyPaymentRequest{SessionID: "cs_test"})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, reservations.StatusPending, reservation.Status)
}

func TestCreateCheckout_Guards(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)
	ctx := context.Background()

	owner := uuid.New()
	reservation := repo.addPendingReservation(owner)
	req := CreateCheckoutRequest{ReservationID: reservation.ID.String()}

	_, err := svc.CreateCheckout(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrNotOwner)

	reservation.ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.CreateCheckout(ctx, owner, req)
	assert.ErrorIs(t, err, ErrReservationNotPayable)

	reservation.ExpiresAt = time.Now().Add(10 * time.Minute)
	session, err := svc.CreateCheckout(ctx, owner, req)
	require.NoError(t, err)
	assert.NotEmpty(t, session.CheckoutURL)
	assert.Len(t, gateway.sessions, 1)
}

func TestGetReceipt(t *testing.T) {
	repo := newFakeRepository()
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)
	ctx := context.Background()

	owner := uuid.New()
	reservation := repo.addPendingReservation(owner)

	_, err := svc.GetReceipt(ctx, reservation.ID, owner, false)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	gateway.webhookFact = paidFact(reservation.ID, "evt_1")
	require.NoError(t, svc.HandleWebhook(ctx, []byte(`{}`), "sig"))

	_, err = svc.GetReceipt(ctx, reservation.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)

	receipt, err := svc.GetReceipt(ctx, reservation.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(2800), receipt.AmountCents)
}
