package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTitle(t *testing.T, repo *repository.Repository, name string) *entity.Title {
	t.Helper()

	now := time.Now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
		Year: 2020,
	}
	require.NoError(t, repo.Title.Create(context.Background(), title))
	return title
}

func seedRequester(t *testing.T, repo *repository.Repository, username string, role entity.UserRole) Requester {
	t.Helper()

	user := seedUser(t, repo.User.(*fakeUserRepo), username, role)
	return Requester{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

func TestCreateReview(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	resp, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text:  "Great book",
		Score: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Author)
	assert.Equal(t, 9, resp.Score)
}

func TestCreateReview_TitleMissing(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	_, err := svc.CreateReview(context.Background(), author, uuid.New(), &request.CreateReviewRequest{
		Text:  "Great book",
		Score: 9,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateReview_OnePerTitle(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	_, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "First take", Score: 8,
	})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "Second take", Score: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already reviewed")

	// A different user can still review the same title
	other := seedRequester(t, repo, "other", entity.RoleUser)
	_, err = svc.CreateReview(context.Background(), other, title.ID, &request.CreateReviewRequest{
		Text: "Another take", Score: 5,
	})
	assert.NoError(t, err)
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	for _, score := range []int{0, 11} {
		_, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
			Text: "x", Score: score,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	}
}

func TestUpdateReview_AuthorOnly(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	stranger := seedRequester(t, repo, "stranger", entity.RoleUser)

	created, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "Original", Score: 7,
	})
	require.NoError(t, err)
	reviewID := uuid.MustParse(created.ID)

	text := "Edited"
	_, err = svc.UpdateReview(context.Background(), stranger, title.ID, reviewID, &request.UpdateReviewRequest{
		Text: &text,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	updated, err := svc.UpdateReview(context.Background(), author, title.ID, reviewID, &request.UpdateReviewRequest{
		Text: &text,
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Text)
}

func TestUpdateReview_ModeratorOverrides(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	moderator := seedRequester(t, repo, "mod", entity.RoleModerator)

	created, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "Spam", Score: 10,
	})
	require.NoError(t, err)
	reviewID := uuid.MustParse(created.ID)

	text := "Cleaned up"
	updated, err := svc.UpdateReview(context.Background(), moderator, title.ID, reviewID, &request.UpdateReviewRequest{
		Text: &text,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cleaned up", updated.Text)
}

func TestDeleteReview_SuperuserOverrides(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	created, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "Take", Score: 6,
	})
	require.NoError(t, err)
	reviewID := uuid.MustParse(created.ID)

	superuser := seedRequester(t, repo, "root", entity.RoleUser)
	superuser.Superuser = true

	require.NoError(t, svc.DeleteReview(context.Background(), superuser, title.ID, reviewID))

	_, err = svc.GetReview(context.Background(), title.ID, reviewID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetReview_WrongTitleReadsAsNotFound(t *testing.T) {
	repo := newFakeRepository()
	svc := NewReviewService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	otherTitle := seedTitle(t, repo, "Solaris")
	author := seedRequester(t, repo, "reader", entity.RoleUser)

	created, err := svc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
		Text: "Take", Score: 6,
	})
	require.NoError(t, err)
	reviewID := uuid.MustParse(created.ID)

	_, err = svc.GetReview(context.Background(), otherTitle.ID, reviewID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReviewScoresDriveTitleRating(t *testing.T) {
	repo := newFakeRepository()
	reviewSvc := NewReviewService(repo, testLogger())
	titleSvc := NewTitleService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")

	got, err := titleSvc.GetTitleByID(context.Background(), title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)

	for i, score := range []int{4, 8} {
		author := seedRequester(t, repo, "reader"+string(rune('a'+i)), entity.RoleUser)
		_, err := reviewSvc.CreateReview(context.Background(), author, title.ID, &request.CreateReviewRequest{
			Text: "Take", Score: score,
		})
		require.NoError(t, err)
	}

	got, err = titleSvc.GetTitleByID(context.Background(), title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 6.0, *got.Rating, 0.001)
}
