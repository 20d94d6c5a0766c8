package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/internal/dto/response"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.UserResponse, int64, error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error

	// Self-service ("me") endpoints
	GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req *request.UpdateMeRequest) (*response.UserResponse, error)
}

type userService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		users: users,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetAllUsers(ctx context.Context, search string, req *request.PaginatedRequest) ([]response.UserResponse, int64, error) {
	users, err := s.users.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all users", zap.Error(err))
		return nil, 0, fmt.Errorf("get all users: %w", err)
	}

	total, err := s.users.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return userResponses, total, nil
}

// CreateUser is the admin path: no confirmation round trip, the account is
// usable immediately. Unlike signup, a registered email IS rejected here.
func (s *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create user validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.Username == "me" {
		return nil, fmt.Errorf("invalid username: me is reserved")
	}

	// 2. Check email not registered
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 3. Check username not taken
	existing, err = s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username")
	}
	if existing != nil {
		return nil, fmt.Errorf("username already taken")
	}

	// 4. Create user entity
	role := entity.RoleUser
	if req.Role != nil {
		role = entity.UserRole(*req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to create user")
	}

	s.log.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", username)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update user validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", username)
	}

	// 3. Apply partial update; role changes are allowed on this admin path
	applyUserPatch(user, req.Email, req.FirstName, req.LastName, req.Bio)
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to update user")
	}

	s.log.Info("User updated", zap.String("username", username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user %s not found", username)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("failed to delete user")
	}

	s.log.Info("User deleted", zap.String("username", username))
	return nil
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateMe applies a partial self-update. The role field is pinned to the
// caller's stored role: a user cannot escalate themselves.
func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, req *request.UpdateMeRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update me validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find caller
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	// 3. Apply patch; req.Role is deliberately ignored
	applyUserPatch(user, req.Email, req.FirstName, req.LastName, req.Bio)
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update user")
	}

	s.log.Info("Profile updated", zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func applyUserPatch(user *entity.User, email, firstName, lastName, bio *string) {
	if email != nil {
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = firstName
	}
	if lastName != nil {
		user.LastName = lastName
	}
	if bio != nil {
		user.Bio = bio
	}
}
