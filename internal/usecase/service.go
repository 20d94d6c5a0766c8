package usecase

import (
	"context"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/pkg/mailer"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	jwtManager *utils.JWTManager,
	mail mailer.Mailer,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, jwtManager, mail, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}

// Requester is the authenticated caller, reconstructed from the request
// context the auth middleware filled.
type Requester struct {
	ID        uuid.UUID
	Username  string
	Role      entity.UserRole
	Superuser bool
}

func RequesterFromContext(ctx context.Context) (Requester, bool) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Requester{}, false
	}

	username, _ := utils.GetUsernameFromContext(ctx)
	role, _ := utils.GetRoleFromContext(ctx)

	return Requester{
		ID:        userID,
		Username:  username,
		Role:      entity.UserRole(role),
		Superuser: utils.IsSuperuserFromContext(ctx),
	}, true
}

// canModify implements the author-or-moderator-or-admin policy shared by
// reviews and comments.
func (req Requester) canModify(authorID uuid.UUID) bool {
	if req.ID == authorID {
		return true
	}
	return req.Role == entity.RoleModerator || req.Role == entity.RoleAdmin || req.Superuser
}
