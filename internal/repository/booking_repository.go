package repository

import (
	"context"
	"database/sql"

	"github.com/TranHoa21/Mufilika/internal/domain"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type BookingRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateBookingRepository(db *sqlx.DB) BookingRepository {
	return &BookingRepositoryImpl{
		db: db,
	}
}

func (r *BookingRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *BookingRepositoryImpl) AddBooking(ctx context.Context, data domain.Booking) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO bookings(id, tour_id, full_name, email, phone, departure_date, guests, total_price, status, created_at, updated_at) VALUES (:id, :tour_id, :full_name, :email, :phone, :departure_date, :guests, :total_price, :status, :created_at, :updated_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddBooking").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *BookingRepositoryImpl) GetBookingByID(ctx context.Context, id string) (data domain.Booking, err error) {
	row := r.ext().QueryRowxContext(ctx, "SELECT * FROM bookings WHERE id = $1 AND deleted_at IS NULL", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrBookingNotFound
		}
		log.Error().Err(err).Str("component", "GetBookingByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *BookingRepositoryImpl) GetBookings(ctx context.Context, filter pkgdto.Filter) (data []domain.Booking, err error) {
	query := "SELECT * FROM bookings WHERE deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBookings").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetBookings").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *BookingRepositoryImpl) MarkBookingPaid(ctx context.Context, payment domain.BookingPayment) (updated bool, err error) {
	// Single conditional update: the status guard makes the PENDING->PAID
	// transition exactly-once under concurrent redelivery, and the one statement
	// keeps the field writes all-or-nothing.
	result, err := r.ext().ExecContext(ctx,
		"UPDATE bookings SET total_price = $1, transaction_no = $2, payment_time = $3, status = $4, updated_at = EXTRACT(EPOCH FROM NOW())::bigint WHERE id = $5 AND status <> $4 AND deleted_at IS NULL",
		payment.TotalPrice, payment.TransactionNo, payment.PaymentTime, domain.BookingStatusPaid, payment.BookingID)
	if err != nil {
		log.Error().Err(err).Str("component", "MarkBookingPaid").Msg("")
		return false, errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "MarkBookingPaid").Msg("")
		return false, errs.ErrInternalServer
	}

	return affected > 0, nil
}

func (r *BookingRepositoryImpl) ExpirePendingBookings(ctx context.Context, cutoff int64) (count int64, err error) {
	result, err := r.ext().ExecContext(ctx,
		"UPDATE bookings SET status = $1, updated_at = EXTRACT(EPOCH FROM NOW())::bigint WHERE status = $2 AND created_at < $3 AND deleted_at IS NULL",
		domain.BookingStatusExpired, domain.BookingStatusPending, cutoff)
	if err != nil {
		log.Error().Err(err).Str("component", "ExpirePendingBookings").Msg("")
		return 0, errs.ErrInternalServer
	}

	count, err = result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "ExpirePendingBookings").Msg("")
		return 0, errs.ErrInternalServer
	}

	return count, nil
}

// HandleTrx runs fn inside a transaction. The return value is named so the
// deferred commit can surface its error to the caller.
func (r *BookingRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo BookingRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	txRepo := &BookingRepositoryImpl{
		tx: tx,
	}

	err = fn(ctx, txRepo)

	return err
}
