package banner

import "time"

// Banner is a promotional storefront slide.
type Banner struct {
	ID        int64
	Title     string
	ImageURL  string
	LinkURL   string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
