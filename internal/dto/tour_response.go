package dto

type TourDateResponse struct {
	ID        int64  `json:"id"`
	Departure string `json:"departure"`
	SeatsLeft int64  `json:"seats_left"`
}

type TourResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Address     string             `json:"address"`
	Description string             `json:"description"`
	Duration    int64              `json:"duration"`
	MaxGuests   int64              `json:"max_guests"`
	Price       float64            `json:"price"`
	ImageURL    *string            `json:"image_url"`
	TourDates   []TourDateResponse `json:"tour_dates,omitempty"`
}
