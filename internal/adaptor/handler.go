package adaptor

import (
	"github.com/qwaszxg/api-yamdb/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Category: NewCategoryHandler(service.Category, log),
		Genre:    NewGenreHandler(service.Genre, log),
		Title:    NewTitleHandler(service.Title, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
	}
}
