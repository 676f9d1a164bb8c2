package domain

type Tour struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Slug        string  `db:"slug"`
	Address     string  `db:"address"`
	Description string  `db:"description"`
	Duration    int64   `db:"duration"`
	MaxGuests   int64   `db:"max_guests"`
	Price       float64 `db:"price"`
	ImageURL    *string `db:"image_url"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
	DeletedAt   *int64  `db:"deleted_at"`
	TourDates   []TourDate
}

type TourDate struct {
	ID        int64  `db:"id"`
	TourID    int64  `db:"tour_id"`
	Departure string `db:"departure"`
	SeatsLeft int64  `db:"seats_left"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
	DeletedAt *int64 `db:"deleted_at"`
}
