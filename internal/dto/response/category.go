package response

import (
	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		Name: category.Name,
		Slug: category.Slug,
	}
}
