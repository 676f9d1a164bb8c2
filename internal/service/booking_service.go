package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TranHoa21/Mufilika/internal/domain"
	"github.com/TranHoa21/Mufilika/internal/dto"
	paymentgateway "github.com/TranHoa21/Mufilika/internal/infrastructure/payment-gateway"
	"github.com/TranHoa21/Mufilika/internal/repository"
	pkgdto "github.com/TranHoa21/Mufilika/pkg/dto"
	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/TranHoa21/Mufilika/pkg/utils"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// pendingBookingTTL is how long an unpaid booking may sit in PENDING before the
// sweeper expires it. VNPay payment URLs outlive their usefulness well before
// this.
const pendingBookingTTL = time.Hour

type BookingServiceImpl struct {
	repository  repository.BookingRepository
	tourRepo    repository.TourRepository
	vnpayClient *paymentgateway.Client
	publisher   EventPublisher
	mailer      Mailer
}

func CreateBookingService(repository repository.BookingRepository, tourRepo repository.TourRepository, vnpayClient *paymentgateway.Client, publisher EventPublisher, mailer Mailer) BookingService {
	return &BookingServiceImpl{
		repository:  repository,
		tourRepo:    tourRepo,
		vnpayClient: vnpayClient,
		publisher:   publisher,
		mailer:      mailer,
	}
}

func (s *BookingServiceImpl) AddBooking(ctx context.Context, req dto.BookingRequest) (resp dto.BookingResponse, err error) {
	if req.FullName == "" || req.Email == "" || req.Phone == "" || req.DepartureDate == "" {
		return resp, errs.ErrClient
	}
	if req.Guests <= 0 {
		return resp, errs.ErrClient
	}

	tour, err := s.tourRepo.GetTourByID(ctx, req.TourID)
	if err != nil {
		return resp, err
	}
	if req.Guests > tour.MaxGuests {
		return resp, errs.ErrClient
	}

	bookingID, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Str("component", "AddBooking").Msg("")
		return resp, errs.ErrInternalServer
	}

	now := time.Now()
	totalPrice := tour.Price * float64(req.Guests)

	booking := domain.Booking{
		ID:            bookingID.String(),
		TourID:        tour.ID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		DepartureDate: req.DepartureDate,
		Guests:        req.Guests,
		TotalPrice:    totalPrice,
		Status:        domain.BookingStatusPending,
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}

	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.BookingRepository) error {
		return repo.AddBooking(ctx, booking)
	})
	if err != nil {
		return resp, err
	}

	paymentURL := s.vnpayClient.PaymentURL(paymentgateway.PaymentRequest{
		BookingID: booking.ID,
		Amount:    totalPrice,
		OrderInfo: fmt.Sprintf("Thanh toan tour %s", tour.Name),
		IPAddr:    req.IPAddr,
		CreatedAt: now,
	})

	return dto.BookingResponse{
		ID:            booking.ID,
		TourName:      tour.Name,
		FullName:      booking.FullName,
		DepartureDate: booking.DepartureDate,
		Guests:        booking.Guests,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status,
		PaymentURL:    paymentURL,
	}, nil
}

// HandleVNPayCallback authenticates a gateway return callback and reconciles
// the referenced booking. Exactly one conditional write happens, and only on
// the verified success path.
func (s *BookingServiceImpl) HandleVNPayCallback(ctx context.Context, params url.Values) (result CallbackResult, err error) {
	if err = s.vnpayClient.VerifyCallback(params); err != nil {
		return result, err
	}

	notification := dto.PaymentCallback{
		TxnRef:        params.Get("vnp_TxnRef"),
		ResponseCode:  params.Get("vnp_ResponseCode"),
		Amount:        params.Get("vnp_Amount"),
		TransactionNo: params.Get("vnp_TransactionNo"),
		PayDate:       params.Get("vnp_PayDate"),
		BankCode:      params.Get("vnp_BankCode"),
	}

	if notification.TxnRef == "" {
		return result, errs.ErrInvalidOrderRef
	}
	bookingID := notification.TxnRef

	if notification.ResponseCode != paymentgateway.ResponseCodeSuccess {
		log.Info().Str("component", "HandleVNPayCallback").
			Str("booking_id", bookingID).
			Str("response_code", notification.ResponseCode).
			Msg("payment not completed")
		return CallbackResult{Outcome: OutcomeFailed, BookingID: bookingID}, nil
	}

	booking, err := s.repository.GetBookingByID(ctx, bookingID)
	if err != nil {
		return result, err
	}

	amountMinor, err := strconv.ParseInt(notification.Amount, 10, 64)
	if err != nil {
		log.Error().Err(err).Str("component", "HandleVNPayCallback").Msg("")
		return result, errs.ErrInternalServer
	}

	payTime, err := utils.ParseVNPayTimestamp(notification.PayDate)
	if err != nil {
		log.Error().Err(err).Str("component", "HandleVNPayCallback").Msg("")
		return result, errs.ErrInternalServer
	}
	var payTimeUnix *int64
	if payTime != nil {
		u := payTime.Unix()
		payTimeUnix = &u
	}

	payment := domain.BookingPayment{
		BookingID:     bookingID,
		TotalPrice:    float64(amountMinor) / 100,
		TransactionNo: notification.TransactionNo,
		PaymentTime:   payTimeUnix,
	}

	updated, err := s.repository.MarkBookingPaid(ctx, payment)
	if err != nil {
		return result, err
	}

	if !updated {
		// Redelivered callback for an already-PAID booking. The state is
		// unchanged and the side effects already went out once.
		log.Info().Str("component", "HandleVNPayCallback").
			Str("booking_id", bookingID).
			Msg("booking already reconciled")
		return CallbackResult{Outcome: OutcomeSuccess, BookingID: bookingID}, nil
	}

	booking.TotalPrice = payment.TotalPrice
	booking.TransactionNo = &payment.TransactionNo
	booking.PaymentTime = payment.PaymentTime
	booking.Status = domain.BookingStatusPaid

	s.publishBookingPaid(booking, notification.BankCode)

	if err := s.mailer.SendBookingConfirmation(booking); err != nil {
		log.Error().Err(err).Str("component", "HandleVNPayCallback").Msg("")
	}

	return CallbackResult{Outcome: OutcomeSuccess, BookingID: bookingID}, nil
}

func (s *BookingServiceImpl) publishBookingPaid(booking domain.Booking, bankCode string) {
	transactionNo := ""
	if booking.TransactionNo != nil {
		transactionNo = *booking.TransactionNo
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: "booking_paid",
		Data: dto.BookingPaidEvent{
			BookingID:     booking.ID,
			TourID:        booking.TourID,
			TotalPrice:    booking.TotalPrice,
			TransactionNo: transactionNo,
			BankCode:      bankCode,
			PaymentTime:   booking.PaymentTime,
		},
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishBookingPaid").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessageWithKey(jsonMsg, booking.ID)
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishBookingPaid").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	log.Error().Err(err).Str("component", "publishBookingPaid").Msgf("failed to write Kafka message after %d attempts", maxRetries)
}

func (s *BookingServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.publisher.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}

func (s *BookingServiceImpl) GetBookings(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	datas, err := s.repository.GetBookings(ctx, filter)
	if err != nil {
		return
	}

	var bookingResponse []dto.BookingResponse
	for _, data := range datas {
		bookingResponse = append(bookingResponse, dto.BookingResponse{
			ID:            data.ID,
			FullName:      data.FullName,
			DepartureDate: data.DepartureDate,
			Guests:        data.Guests,
			TotalPrice:    data.TotalPrice,
			Status:        data.Status,
			TransactionNo: data.TransactionNo,
			PaymentTime:   data.PaymentTime,
		})
	}

	response.Records = bookingResponse
	response.Page = filter.Page
	response.Limit = filter.Limit

	return
}

func (s *BookingServiceImpl) ExpirePendingBookings() {
	log.Info().Str("component", "ExpirePendingBookings").Msg("cron starts")

	cutoff := time.Now().Add(-pendingBookingTTL).Unix()
	count, err := s.repository.ExpirePendingBookings(context.Background(), cutoff)
	if err != nil {
		log.Error().Err(err).Str("component", "ExpirePendingBookings").Msg("")
		return
	}

	log.Info().Str("component", "ExpirePendingBookings").Int64("count", count).Msg("cron ends")
}
