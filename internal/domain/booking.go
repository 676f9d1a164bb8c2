package domain

const (
	BookingStatusPending = "PENDING"
	BookingStatusPaid    = "PAID"
	BookingStatusFailed  = "FAILED"
	BookingStatusExpired = "EXPIRED"
)

type Booking struct {
	ID            string  `db:"id"`
	TourID        int64   `db:"tour_id"`
	FullName      string  `db:"full_name"`
	Email         string  `db:"email"`
	Phone         string  `db:"phone"`
	DepartureDate string  `db:"departure_date"`
	Guests        int64   `db:"guests"`
	TotalPrice    float64 `db:"total_price"`
	Status        string  `db:"status"`
	TransactionNo *string `db:"transaction_no"`
	PaymentTime   *int64  `db:"payment_time"`
	CreatedAt     int64   `db:"created_at"`
	UpdatedAt     int64   `db:"updated_at"`
	DeletedAt     *int64  `db:"deleted_at"`
	Tour          Tour
}

// BookingPayment carries the payment facts applied when a booking transitions to
// PAID. All fields land in a single update statement.
type BookingPayment struct {
	BookingID     string
	TotalPrice    float64
	TransactionNo string
	PaymentTime   *int64
}
