package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/TranHoa21/Mufilika/config"
	"github.com/TranHoa21/Mufilika/internal/domain"
	"github.com/TranHoa21/Mufilika/internal/dto"
	paymentgateway "github.com/TranHoa21/Mufilika/internal/infrastructure/payment-gateway"
	"github.com/TranHoa21/Mufilika/internal/repository"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	bookings  map[string]*domain.Booking
	markCalls int
	markErr   error
	getErr    error
}

func newFakeBookingRepo(bookings ...domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
	for i := range bookings {
		b := bookings[i]
		repo.bookings[b.ID] = &b
	}
	return repo
}

func (r *fakeBookingRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.BookingRepository) error) error {
	return fn(ctx, r)
}

func (r *fakeBookingRepo) AddBooking(ctx context.Context, data domain.Booking) error {
	r.bookings[data.ID] = &data
	return nil
}

func (r *fakeBookingRepo) GetBookingByID(ctx context.Context, id string) (domain.Booking, error) {
	if r.getErr != nil {
		return domain.Booking{}, r.getErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return domain.Booking{}, errs.ErrBookingNotFound
	}
	return *b, nil
}

func (r *fakeBookingRepo) GetBookings(ctx context.Context, filter pkgdto.Filter) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkBookingPaid(ctx context.Context, payment domain.BookingPayment) (bool, error) {
	r.markCalls++
	if r.markErr != nil {
		return false, r.markErr
	}
	b, ok := r.bookings[payment.BookingID]
	if !ok || b.Status == domain.BookingStatusPaid {
		return false, nil
	}
	b.TotalPrice = payment.TotalPrice
	b.TransactionNo = &payment.TransactionNo
	b.PaymentTime = payment.PaymentTime
	b.Status = domain.BookingStatusPaid
	return true, nil
}

func (r *fakeBookingRepo) ExpirePendingBookings(ctx context.Context, cutoff int64) (int64, error) {
	var count int64
	for _, b := range r.bookings {
		if b.Status == domain.BookingStatusPending && b.CreatedAt < cutoff {
			b.Status = domain.BookingStatusExpired
			count++
		}
	}
	return count, nil
}

type fakeTourRepo struct {
	tours map[int64]domain.Tour
}

func (r *fakeTourRepo) GetTours(ctx context.Context, filter pkgdto.Filter) ([]domain.Tour, error) {
	return nil, nil
}

func (r *fakeTourRepo) GetTourByID(ctx context.Context, id int64) (domain.Tour, error) {
	tour, ok := r.tours[id]
	if !ok {
		return domain.Tour{}, errs.ErrTourNotFound
	}
	return tour, nil
}

func (r *fakeTourRepo) GetTourBySlug(ctx context.Context, slug string) (domain.Tour, error) {
	return domain.Tour{}, errs.ErrTourNotFound
}

func (r *fakeTourRepo) GetTourDatesByTourID(ctx context.Context, tourID int64) ([]domain.TourDate, error) {
	return nil, nil
}

func (r *fakeTourRepo) AddTour(ctx context.Context, data domain.Tour) (int64, error) {
	return 1, nil
}

func (r *fakeTourRepo) UpdateTour(ctx context.Context, data domain.Tour) error {
	return nil
}

func (r *fakeTourRepo) DeleteTour(ctx context.Context, slug string, deletedAt int64) error {
	return nil
}

type fakePublisher struct {
	messages []kafka.Message
	err      error
}

func (p *fakePublisher) WriteMessages(msgs ...kafka.Message) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.messages = append(p.messages, msgs...)
	return len(msgs), nil
}

type fakeMailer struct {
	sent []domain.Booking
}

func (m *fakeMailer) SendBookingConfirmation(booking domain.Booking) error {
	m.sent = append(m.sent, booking)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL: "https://mufilika.example",
		VNPayConfig: config.VNPayConfig{
			TmnCode:    "MUFILIKA",
			HashSecret: "vnpay-test-secret",
			PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "https://mufilika.example/api/v1/payments/vnpay/callback",
		},
	}
}

func newTestService(bookingRepo *fakeBookingRepo) (*BookingServiceImpl, *fakePublisher, *fakeMailer, *paymentgateway.Client) {
	conf := testConfig()
	client := paymentgateway.CreateVNPayClient(conf)
	publisher := &fakePublisher{}
	mailer := &fakeMailer{}
	tourRepo := &fakeTourRepo{tours: map[int64]domain.Tour{
		7: {ID: 7, Name: "Sahara Sunrise", Slug: "sahara-sunrise", MaxGuests: 10, Price: 500},
	}}

	svc := CreateBookingService(bookingRepo, tourRepo, client, publisher, mailer).(*BookingServiceImpl)
	return svc, publisher, mailer, client
}

func signedParams(client *paymentgateway.Client, fields map[string]string) url.Values {
	params := url.Values{}
	for key, value := range fields {
		params.Set(key, value)
	}
	params.Set("vnp_SecureHash", client.SignParams(params))
	return params
}

func successCallbackFields(bookingID string) map[string]string {
	return map[string]string{
		"vnp_TxnRef":        bookingID,
		"vnp_ResponseCode":  "00",
		"vnp_Amount":        "150000",
		"vnp_TransactionNo": "TXN999",
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20240115143000",
	}
}

func pendingBooking(id string) domain.Booking {
	return domain.Booking{
		ID:         id,
		TourID:     7,
		FullName:   "Jane Pham",
		Email:      "jane@example.com",
		Status:     domain.BookingStatusPending,
		TotalPrice: 1500,
	}
}

func TestHandleVNPayCallbackSuccess(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, publisher, mailer, client := newTestService(repo)

	result, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, successCallbackFields("ORDER123")))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "ORDER123", result.BookingID)

	booking := repo.bookings["ORDER123"]
	assert.Equal(t, domain.BookingStatusPaid, booking.Status)
	assert.Equal(t, float64(1500), booking.TotalPrice)
	require.NotNil(t, booking.TransactionNo)
	assert.Equal(t, "TXN999", *booking.TransactionNo)
	require.NotNil(t, booking.PaymentTime)
	assert.Equal(t, int64(1705329000), *booking.PaymentTime) // 2024-01-15T14:30:00Z

	require.Len(t, publisher.messages, 1)
	assert.Len(t, mailer.sent, 1)

	var event struct {
		EventType string               `json:"event_type"`
		Data      dto.BookingPaidEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(publisher.messages[0].Value, &event))
	assert.Equal(t, "booking_paid", event.EventType)
	assert.Equal(t, "ORDER123", event.Data.BookingID)
	assert.Equal(t, "TXN999", event.Data.TransactionNo)
	assert.Equal(t, "NCB", event.Data.BankCode)
}

func TestHandleVNPayCallbackTamperedSignature(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, publisher, mailer, client := newTestService(repo)

	params := signedParams(client, successCallbackFields("ORDER123"))
	params.Set("vnp_Amount", "999999")

	_, err := svc.HandleVNPayCallback(context.Background(), params)
	assert.ErrorIs(t, err, errs.ErrInvalidSignature)

	assert.Equal(t, domain.BookingStatusPending, repo.bookings["ORDER123"].Status)
	assert.Zero(t, repo.markCalls)
	assert.Empty(t, publisher.messages)
	assert.Empty(t, mailer.sent)
}

func TestHandleVNPayCallbackMissingOrderRef(t *testing.T) {
	repo := newFakeBookingRepo()
	svc, _, _, client := newTestService(repo)

	fields := successCallbackFields("ORDER123")
	delete(fields, "vnp_TxnRef")

	_, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, fields))
	assert.ErrorIs(t, err, errs.ErrInvalidOrderRef)
}

func TestHandleVNPayCallbackDeclined(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, publisher, mailer, client := newTestService(repo)

	fields := successCallbackFields("ORDER123")
	fields["vnp_ResponseCode"] = "24" // cancelled by payer

	result, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, fields))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, "ORDER123", result.BookingID)

	assert.Equal(t, domain.BookingStatusPending, repo.bookings["ORDER123"].Status)
	assert.Zero(t, repo.markCalls)
	assert.Empty(t, publisher.messages)
	assert.Empty(t, mailer.sent)
}

func TestHandleVNPayCallbackUnknownBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	svc, publisher, _, client := newTestService(repo)

	_, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, successCallbackFields("ORDER123")))
	assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	assert.Zero(t, repo.markCalls)
	assert.Empty(t, publisher.messages)
}

func TestHandleVNPayCallbackMissingPayDate(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, _, _, client := newTestService(repo)

	fields := successCallbackFields("ORDER123")
	delete(fields, "vnp_PayDate")

	result, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, fields))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)

	booking := repo.bookings["ORDER123"]
	assert.Equal(t, domain.BookingStatusPaid, booking.Status)
	assert.Nil(t, booking.PaymentTime)
}

func TestHandleVNPayCallbackMalformedAmount(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, _, _, client := newTestService(repo)

	fields := successCallbackFields("ORDER123")
	fields["vnp_Amount"] = "not-a-number"

	_, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, fields))
	assert.ErrorIs(t, err, errs.ErrInternalServer)
	assert.Zero(t, repo.markCalls)
	assert.Equal(t, domain.BookingStatusPending, repo.bookings["ORDER123"].Status)
}

func TestHandleVNPayCallbackIdempotentRedelivery(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, publisher, mailer, client := newTestService(repo)

	params := signedParams(client, successCallbackFields("ORDER123"))

	first, err := svc.HandleVNPayCallback(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, first.Outcome)

	afterFirst := *repo.bookings["ORDER123"]

	second, err := svc.HandleVNPayCallback(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, second.Outcome)

	// State identical, side effects emitted exactly once.
	assert.Equal(t, afterFirst, *repo.bookings["ORDER123"])
	assert.Len(t, publisher.messages, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestHandleVNPayCallbackStoreFailure(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	repo.markErr = errs.ErrInternalServer
	svc, publisher, _, client := newTestService(repo)

	_, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, successCallbackFields("ORDER123")))
	assert.ErrorIs(t, err, errs.ErrInternalServer)
	assert.Empty(t, publisher.messages)
}

func TestHandleVNPayCallbackPublisherFailureStillSucceeds(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("ORDER123"))
	svc, publisher, mailer, client := newTestService(repo)
	publisher.err = errors.New("broker down")

	result, err := svc.HandleVNPayCallback(context.Background(), signedParams(client, successCallbackFields("ORDER123")))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, domain.BookingStatusPaid, repo.bookings["ORDER123"].Status)
	assert.Len(t, mailer.sent, 1)
}

func TestAddBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	svc, _, _, client := newTestService(repo)

	resp, err := svc.AddBooking(context.Background(), dto.BookingRequest{
		TourID:        7,
		FullName:      "Jane Pham",
		Email:         "jane@example.com",
		Phone:         "0912345678",
		DepartureDate: "2024-03-01",
		Guests:        3,
		IPAddr:        "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusPending, resp.Status)
	assert.Equal(t, float64(1500), resp.TotalPrice)
	assert.Equal(t, "Sahara Sunrise", resp.TourName)
	require.NotEmpty(t, resp.ID)

	stored, ok := repo.bookings[resp.ID]
	require.True(t, ok)
	assert.Equal(t, domain.BookingStatusPending, stored.Status)

	// The payment URL we hand out must verify against our own gateway client
	// and carry the payer's address.
	parsed, err := url.Parse(resp.PaymentURL)
	require.NoError(t, err)
	assert.NoError(t, client.VerifyCallback(parsed.Query()))
	assert.Equal(t, "150000", parsed.Query().Get("vnp_Amount"))
	assert.Equal(t, "203.0.113.7", parsed.Query().Get("vnp_IpAddr"))
}

func TestAddBookingValidation(t *testing.T) {
	repo := newFakeBookingRepo()
	svc, _, _, _ := newTestService(repo)

	testCases := []struct {
		Name    string
		Request dto.BookingRequest
		WantErr error
	}{
		{
			Name:    "missing name",
			Request: dto.BookingRequest{TourID: 7, Email: "a@b.c", Phone: "1", DepartureDate: "2024-03-01", Guests: 1},
			WantErr: errs.ErrClient,
		},
		{
			Name:    "zero guests",
			Request: dto.BookingRequest{TourID: 7, FullName: "x", Email: "a@b.c", Phone: "1", DepartureDate: "2024-03-01"},
			WantErr: errs.ErrClient,
		},
		{
			Name:    "too many guests",
			Request: dto.BookingRequest{TourID: 7, FullName: "x", Email: "a@b.c", Phone: "1", DepartureDate: "2024-03-01", Guests: 99},
			WantErr: errs.ErrClient,
		},
		{
			Name:    "unknown tour",
			Request: dto.BookingRequest{TourID: 404, FullName: "x", Email: "a@b.c", Phone: "1", DepartureDate: "2024-03-01", Guests: 1},
			WantErr: errs.ErrTourNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := svc.AddBooking(context.Background(), tc.Request)
			assert.ErrorIs(t, err, tc.WantErr)
			assert.Empty(t, repo.bookings)
		})
	}
}

func TestExpirePendingBookings(t *testing.T) {
	stale := pendingBooking("old")
	stale.CreatedAt = 1 // far in the past
	fresh := pendingBooking("new")
	fresh.CreatedAt = 1<<62 - 1

	repo := newFakeBookingRepo(stale, fresh)
	svc, _, _, _ := newTestService(repo)

	svc.ExpirePendingBookings()

	assert.Equal(t, domain.BookingStatusExpired, repo.bookings["old"].Status)
	assert.Equal(t, domain.BookingStatusPending, repo.bookings["new"].Status)
}
