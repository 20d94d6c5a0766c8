package response

import (
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

type ReviewResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// Helper converter. Author is the username, resolved by the service.
func ReviewToResponse(review *entity.Review, author string) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID.String(),
		Author:  author,
		Text:    review.Text,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}
