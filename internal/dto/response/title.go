package response

import (
	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

// TitleResponse carries the computed rating: null until the first review.
type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

func TitleToResponse(title *entity.Title, category *entity.Category, genres []*entity.Genre) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      title.Rating,
		Genre:       []GenreResponse{},
	}

	if category != nil {
		c := CategoryToResponse(category)
		resp.Category = &c
	}

	for _, genre := range genres {
		resp.Genre = append(resp.Genre, GenreToResponse(genre))
	}

	return resp
}
