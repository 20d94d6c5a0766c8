package request

type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,min=0"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
}

type UpdateTitleRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
}

// TitleListRequest carries the list filters parsed from query parameters.
type TitleListRequest struct {
	PaginatedRequest
	Name     *string
	Year     *int
	Category *string
	Genre    *string
}
