package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username string, role entity.UserRole) *entity.User {
	t.Helper()

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestCreateUser_DefaultsToUserRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())

	resp, err := svc.CreateUser(context.Background(), &request.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.Role)
}

func TestCreateUser_WithRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())

	role := "moderator"
	resp, err := svc.CreateUser(context.Background(), &request.CreateUserRequest{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "moderator", resp.Role)
}

func TestCreateUser_DuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	seedUser(t, repo, "existing", entity.RoleUser)

	_, err := svc.CreateUser(context.Background(), &request.CreateUserRequest{
		Username: "another",
		Email:    "existing@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already")
}

func TestCreateUser_DuplicateUsernameRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	seedUser(t, repo, "existing", entity.RoleUser)

	_, err := svc.CreateUser(context.Background(), &request.CreateUserRequest{
		Username: "existing",
		Email:    "fresh@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestCreateUser_MeReserved(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())

	_, err := svc.CreateUser(context.Background(), &request.CreateUserRequest{
		Username: "me",
		Email:    "me@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestUpdateUser_AdminCanChangeRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	seedUser(t, repo, "promotee", entity.RoleUser)

	role := "moderator"
	resp, err := svc.UpdateUser(context.Background(), "promotee", &request.UpdateUserRequest{
		Role: &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "moderator", resp.Role)
}

func TestUpdateMe_RolePinned(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	user := seedUser(t, repo, "plain", entity.RoleUser)

	role := "admin"
	bio := "just a reader"
	resp, err := svc.UpdateMe(context.Background(), user.ID, &request.UpdateMeRequest{
		Bio:  &bio,
		Role: &role,
	})
	require.NoError(t, err)

	// The profile patch lands, the role escalation does not
	require.NotNil(t, resp.Bio)
	assert.Equal(t, "just a reader", *resp.Bio)
	assert.Equal(t, "user", resp.Role)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, stored.Role)
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())

	_, err := svc.GetByUsername(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	seedUser(t, repo, "leaver", entity.RoleUser)

	require.NoError(t, svc.DeleteUser(context.Background(), "leaver"))

	_, err := svc.GetByUsername(context.Background(), "leaver")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetAllUsers_Search(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, testLogger())
	seedUser(t, repo, "alice", entity.RoleUser)
	seedUser(t, repo, "bob", entity.RoleUser)

	users, total, err := svc.GetAllUsers(context.Background(), "ali", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}
