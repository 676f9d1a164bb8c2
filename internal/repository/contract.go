package repository

import (
	"context"

	"github.com/TranHoa21/Mufilika/internal/domain"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
)

type BookingRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo BookingRepository) error) error

	AddBooking(ctx context.Context, data domain.Booking) (err error)
	GetBookingByID(ctx context.Context, id string) (data domain.Booking, err error)
	GetBookings(ctx context.Context, filter pkgdto.Filter) (data []domain.Booking, err error)

	// MarkBookingPaid applies the payment facts and flips the booking to PAID in
	// one conditional statement. It reports false when the booking was already
	// PAID, so redelivered callbacks are absorbed without a second write.
	MarkBookingPaid(ctx context.Context, payment domain.BookingPayment) (updated bool, err error)

	ExpirePendingBookings(ctx context.Context, cutoff int64) (count int64, err error)
}

type TourRepository interface {
	GetTours(ctx context.Context, filter pkgdto.Filter) (data []domain.Tour, err error)
	GetTourByID(ctx context.Context, id int64) (data domain.Tour, err error)
	GetTourBySlug(ctx context.Context, slug string) (data domain.Tour, err error)
	GetTourDatesByTourID(ctx context.Context, tourID int64) (data []domain.TourDate, err error)
	AddTour(ctx context.Context, data domain.Tour) (id int64, err error)
	UpdateTour(ctx context.Context, data domain.Tour) (err error)
	DeleteTour(ctx context.Context, slug string, deletedAt int64) (err error)
}
