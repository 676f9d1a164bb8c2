package dto

type BookingRequest struct {
	TourID        int64  `json:"tour_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DepartureDate string `json:"departure_date"`
	Guests        int64  `json:"guests"`

	// IPAddr is the client address the gateway requires in the payment URL.
	// Filled from the connection by the controller, never from the body.
	IPAddr string `json:"-"`
}
