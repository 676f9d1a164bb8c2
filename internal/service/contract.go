package service

import (
	"context"
	"net/url"

	"github.com/TranHoa21/Mufilika/internal/domain"
	"github.com/TranHoa21/Mufilika/internal/dto"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/segmentio/kafka-go"
)

type CallbackOutcome string

const (
	// OutcomeSuccess means the callback was authentic, carried the success code
	// and the booking is PAID (possibly from an earlier delivery).
	OutcomeSuccess CallbackOutcome = "success"
	// OutcomeFailed means the callback was authentic but the gateway reported a
	// non-success code. The booking is untouched; this is not a system error.
	OutcomeFailed CallbackOutcome = "failed"
)

type CallbackResult struct {
	Outcome   CallbackOutcome
	BookingID string
}

type BookingService interface {
	AddBooking(ctx context.Context, req dto.BookingRequest) (resp dto.BookingResponse, err error)
	HandleVNPayCallback(ctx context.Context, params url.Values) (result CallbackResult, err error)
	GetBookings(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	ExpirePendingBookings()
}

type TourService interface {
	GetTours(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	GetTourBySlug(ctx context.Context, slug string) (resp dto.TourResponse, err error)
	GetTourDates(ctx context.Context, tourID int64) (resp []dto.TourDateResponse, err error)
	AddTour(ctx context.Context, req dto.TourRequest, image *ImageUpload) (resp dto.TourResponse, err error)
	UpdateTour(ctx context.Context, slug string, req dto.TourRequest, image *ImageUpload) (err error)
	DeleteTour(ctx context.Context, slug string) (err error)
}

// ImageUpload is an in-memory image received from a multipart form.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

// EventPublisher is satisfied by *kafka.Conn.
type EventPublisher interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

type Mailer interface {
	SendBookingConfirmation(booking domain.Booking) error
}
