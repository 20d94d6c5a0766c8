package response

import (
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

type CommentResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func CommentToResponse(comment *entity.Comment, author string) CommentResponse {
	return CommentResponse{
		ID:      comment.ID.String(),
		Author:  author,
		Text:    comment.Text,
		PubDate: comment.PubDate,
	}
}
