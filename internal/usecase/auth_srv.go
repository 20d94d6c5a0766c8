package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/dto/response"
	"github.com/qwaszxg/api-yamdb/pkg/mailer"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error)
	GetToken(ctx context.Context, req *request.GetTokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	jwt    *utils.JWTManager
	mail   mailer.Mailer
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	jwtManager *utils.JWTManager,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		jwt:    jwtManager,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
	}
}

// SignUp creates-or-fetches the user by username and issues a fresh
// confirmation code. Idempotent: repeating the call with the same
// (username, email) pair regenerates the code and resends the email.
// An email already used by a different username is deliberately NOT
// rejected: a second account with the same email gets its own code.
func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// "me" collides with the self-service endpoint
	if req.Username == "me" {
		return nil, fmt.Errorf("invalid username: me is reserved")
	}

	// 2. Create-or-fetch by username
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username")
	}

	if user != nil && user.Email != req.Email {
		// Username exists under another email; not the idempotent retry case
		return nil, fmt.Errorf("username already taken")
	}

	now := time.Now()
	if user == nil {
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}

		if err := s.repo.User.Create(ctx, user); err != nil {
			s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
			return nil, fmt.Errorf("failed to create account")
		}
	}

	// 3. Generate a new code and overwrite the previous one. The old code
	// stops working right here; the new one has no expiry until the next
	// signup call replaces it.
	code := utils.GenerateConfirmationCode(s.config.Code.Length)
	hash, err := utils.HashConfirmationCode(code)
	if err != nil {
		s.log.Error("Failed to hash confirmation code", zap.Error(err))
		return nil, fmt.Errorf("failed to generate confirmation code")
	}

	user.ConfirmationCode = &hash
	user.UpdatedAt = now

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to store confirmation code",
			zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to generate confirmation code")
	}

	// 4. Dispatch the plaintext code by email (fire-and-forget)
	go s.sendConfirmationCode(user.Email, user.Username, code)

	s.log.Info("Signup processed",
		zap.String("username", user.Username),
		zap.String("email", user.Email))

	return &response.SignUpResponse{
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// GetToken exchanges a confirmation code for a JWT bound to the user's
// identity and role.
func (s *authService) GetToken(ctx context.Context, req *request.GetTokenRequest) (*response.TokenResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Get token validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Unknown username is 404, not 400
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", req.Username)
	}

	// 3. Compare against the stored hash
	if user.ConfirmationCode == nil || !utils.CheckConfirmationCode(req.ConfirmationCode, *user.ConfirmationCode) {
		s.log.Warn("Confirmation code mismatch", zap.String("username", req.Username))
		return nil, fmt.Errorf("invalid confirmation code")
	}

	// 4. Issue the token
	token, err := s.jwt.Generate(user.ID, user.Username, string(user.Role), user.IsSuperuser)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to issue token")
	}

	s.log.Info("Token issued",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &response.TokenResponse{Token: token}, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) sendConfirmationCode(email, username, code string) {
	subject := "YaMDB confirmation code"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour confirmation code: %s\n\nExchange it for a token at /api/v1/auth/token.",
		username, code,
	)

	if err := s.mail.Send(email, subject, body); err != nil {
		s.log.Error("Failed to send confirmation code",
			zap.Error(err), zap.String("email", email))
	}
}
