package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type BookingPaidEvent struct {
	BookingID     string  `json:"booking_id"`
	TourID        int64   `json:"tour_id"`
	TotalPrice    float64 `json:"total_price"`
	TransactionNo string  `json:"transaction_no"`
	BankCode      string  `json:"bank_code"`
	PaymentTime   *int64  `json:"payment_time"`
}
