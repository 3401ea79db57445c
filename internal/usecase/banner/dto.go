package banner

// CreateBannerRequest represents the request payload for creating a banner.
type CreateBannerRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=200"`
	LinkURL  string `json:"link_url" validate:"omitempty,max=500"`
	Position int    `json:"position" validate:"gte=0"`
	Active   *bool  `json:"active"`
}

// UpdateBannerRequest represents the request payload for editing a banner.
type UpdateBannerRequest struct {
	ID       int64   `json:"-" validate:"required"`
	Title    *string `json:"title" validate:"omitempty,min=2,max=200"`
	LinkURL  *string `json:"link_url" validate:"omitempty,max=500"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
	Active   *bool   `json:"active"`
}
