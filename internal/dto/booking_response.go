package dto

type BookingResponse struct {
	ID            string  `json:"id"`
	TourName      string  `json:"tour_name"`
	FullName      string  `json:"full_name"`
	DepartureDate string  `json:"departure_date"`
	Guests        int64   `json:"guests"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	TransactionNo *string `json:"transaction_no"`
	PaymentTime   *int64  `json:"payment_time"`
	PaymentURL    string  `json:"payment_url,omitempty"`
}
