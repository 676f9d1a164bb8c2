package dto

type TourRequest struct {
	Name        string  `json:"name" form:"name"`
	Slug        string  `json:"slug" form:"slug"`
	Address     string  `json:"address" form:"address"`
	Description string  `json:"description" form:"description"`
	Duration    int64   `json:"duration" form:"duration"`
	MaxGuests   int64   `json:"max_guests" form:"maxGuests"`
	Price       float64 `json:"price" form:"price"`
}
