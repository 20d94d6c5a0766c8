package usecase

import (
	"context"
	"testing"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReview(t *testing.T, repo *repository.Repository, titleID uuid.UUID, author Requester) uuid.UUID {
	t.Helper()

	svc := NewReviewService(repo, testLogger())
	created, err := svc.CreateReview(context.Background(), author, titleID, &request.CreateReviewRequest{
		Text: "Take", Score: 7,
	})
	require.NoError(t, err)
	return uuid.MustParse(created.ID)
}

func TestCreateComment(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCommentService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	reviewID := seedReview(t, repo, title.ID, author)

	commenter := seedRequester(t, repo, "talker", entity.RoleUser)
	resp, err := svc.CreateComment(context.Background(), commenter, title.ID, reviewID, &request.CreateCommentRequest{
		Text: "Agreed",
	})
	require.NoError(t, err)
	assert.Equal(t, "talker", resp.Author)
	assert.Equal(t, "Agreed", resp.Text)
}

func TestCreateComment_ReviewUnderWrongTitle(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCommentService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	otherTitle := seedTitle(t, repo, "Solaris")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	reviewID := seedReview(t, repo, title.ID, author)

	_, err := svc.CreateComment(context.Background(), author, otherTitle.ID, reviewID, &request.CreateCommentRequest{
		Text: "Lost",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateComment_Policy(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCommentService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	reviewID := seedReview(t, repo, title.ID, author)

	created, err := svc.CreateComment(context.Background(), author, title.ID, reviewID, &request.CreateCommentRequest{
		Text: "Original",
	})
	require.NoError(t, err)
	commentID := uuid.MustParse(created.ID)

	text := "Edited"
	stranger := seedRequester(t, repo, "stranger", entity.RoleUser)
	_, err = svc.UpdateComment(context.Background(), stranger, title.ID, reviewID, commentID, &request.UpdateCommentRequest{
		Text: &text,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")

	moderator := seedRequester(t, repo, "mod", entity.RoleModerator)
	updated, err := svc.UpdateComment(context.Background(), moderator, title.ID, reviewID, commentID, &request.UpdateCommentRequest{
		Text: &text,
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Text)
}

func TestDeleteComment(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCommentService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	reviewID := seedReview(t, repo, title.ID, author)

	created, err := svc.CreateComment(context.Background(), author, title.ID, reviewID, &request.CreateCommentRequest{
		Text: "Gone soon",
	})
	require.NoError(t, err)
	commentID := uuid.MustParse(created.ID)

	require.NoError(t, svc.DeleteComment(context.Background(), author, title.ID, reviewID, commentID))

	_, err = svc.GetComment(context.Background(), title.ID, reviewID, commentID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetComments_CountsPerReview(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCommentService(repo, testLogger())
	title := seedTitle(t, repo, "Dune")
	author := seedRequester(t, repo, "reader", entity.RoleUser)
	reviewID := seedReview(t, repo, title.ID, author)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateComment(context.Background(), author, title.ID, reviewID, &request.CreateCommentRequest{
			Text: "x",
		})
		require.NoError(t, err)
	}

	comments, total, err := svc.GetCommentsByReview(context.Background(), title.ID, reviewID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, comments, 3)
}
