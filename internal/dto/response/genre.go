package response

import (
	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{
		Name: genre.Name,
		Slug: genre.Slug,
	}
}
