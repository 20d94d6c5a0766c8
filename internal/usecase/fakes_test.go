package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// In-memory fakes for the repository interfaces. Fakes instead of a mock
// framework: each one is a map plus the few lookups the services need.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.User
	for _, user := range f.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context, search string) (int64, error) {
	users, _ := f.FindAll(ctx, search, 0, 0)
	return int64(len(users)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	if category, ok := f.categories[id]; ok {
		return category, nil
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	for _, category := range f.categories {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	var result []*entity.Category
	for _, category := range f.categories {
		result = append(result, category)
	}
	return result, nil
}

func (f *fakeCategoryRepo) CountAll(ctx context.Context, search string) (int64, error) {
	return int64(len(f.categories)), nil
}

func (f *fakeCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	for id, category := range f.categories {
		if category.Slug == slug {
			delete(f.categories, id)
			return nil
		}
	}
	return nil
}

type fakeGenreRepo struct {
	genres map[uuid.UUID]*entity.Genre
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{genres: make(map[uuid.UUID]*entity.Genre)}
}

func (f *fakeGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	f.genres[genre.ID] = genre
	return nil
}

func (f *fakeGenreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	for _, genre := range f.genres {
		if genre.Slug == slug {
			return genre, nil
		}
	}
	return nil, nil
}

func (f *fakeGenreRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	var result []*entity.Genre
	for _, slug := range slugs {
		if genre, _ := f.FindBySlug(ctx, slug); genre != nil {
			result = append(result, genre)
		}
	}
	return result, nil
}

func (f *fakeGenreRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	var result []*entity.Genre
	for _, genre := range f.genres {
		result = append(result, genre)
	}
	return result, nil
}

func (f *fakeGenreRepo) CountAll(ctx context.Context, search string) (int64, error) {
	return int64(len(f.genres)), nil
}

func (f *fakeGenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	for id, genre := range f.genres {
		if genre.Slug == slug {
			delete(f.genres, id)
			return nil
		}
	}
	return nil
}

type fakeTitleRepo struct {
	titles  map[uuid.UUID]*entity.Title
	reviews *fakeReviewRepo // for rating computation
}

func newFakeTitleRepo(reviews *fakeReviewRepo) *fakeTitleRepo {
	return &fakeTitleRepo{titles: make(map[uuid.UUID]*entity.Title), reviews: reviews}
}

func (f *fakeTitleRepo) Create(ctx context.Context, title *entity.Title) error {
	copied := *title
	f.titles[title.ID] = &copied
	return nil
}

func (f *fakeTitleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, ok := f.titles[id]
	if !ok {
		return nil, nil
	}
	copied := *title
	copied.Rating = f.rating(id)
	return &copied, nil
}

func (f *fakeTitleRepo) FindAll(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	var result []*entity.Title
	for _, title := range f.titles {
		if filter.Year != nil && title.Year != *filter.Year {
			continue
		}
		copied := *title
		copied.Rating = f.rating(title.ID)
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeTitleRepo) CountAll(ctx context.Context, filter repository.TitleFilter) (int64, error) {
	titles, _ := f.FindAll(ctx, filter, 0, 0)
	return int64(len(titles)), nil
}

func (f *fakeTitleRepo) Update(ctx context.Context, title *entity.Title) error {
	copied := *title
	f.titles[title.ID] = &copied
	return nil
}

func (f *fakeTitleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.titles, id)
	return nil
}

// rating mirrors the AVG(score) annotation the SQL layer performs.
func (f *fakeTitleRepo) rating(titleID uuid.UUID) *float64 {
	if f.reviews == nil {
		return nil
	}
	var sum, n float64
	for _, review := range f.reviews.reviews {
		if review.TitleID == titleID {
			sum += float64(review.Score)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / n
	return &avg
}

type fakeTitleGenreRepo struct {
	byTitle map[uuid.UUID][]*entity.Genre
	genres  *fakeGenreRepo
}

func newFakeTitleGenreRepo(genres *fakeGenreRepo) *fakeTitleGenreRepo {
	return &fakeTitleGenreRepo{byTitle: make(map[uuid.UUID][]*entity.Genre), genres: genres}
}

func (f *fakeTitleGenreRepo) ReplaceForTitle(ctx context.Context, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	var set []*entity.Genre
	for _, genreID := range genreIDs {
		if genre, ok := f.genres.genres[genreID]; ok {
			set = append(set, genre)
		}
	}
	f.byTitle[titleID] = set
	return nil
}

func (f *fakeTitleGenreRepo) FindGenresByTitleID(ctx context.Context, titleID uuid.UUID) ([]*entity.Genre, error) {
	return f.byTitle[titleID], nil
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	if review, ok := f.reviews[id]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeReviewRepo) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	var result []*entity.Review
	for _, review := range f.reviews {
		if review.TitleID == titleID {
			copied := *review
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeReviewRepo) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	reviews, _ := f.FindByTitleID(ctx, titleID, 0, 0)
	return int64(len(reviews)), nil
}

func (f *fakeReviewRepo) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	for _, review := range f.reviews {
		if review.AuthorID == authorID && review.TitleID == titleID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.reviews, id)
	return nil
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]*entity.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*entity.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	if comment, ok := f.comments[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCommentRepo) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	var result []*entity.Comment
	for _, comment := range f.comments {
		if comment.ReviewID == reviewID {
			copied := *comment
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	comments, _ := f.FindByReviewID(ctx, reviewID, 0, 0)
	return int64(len(comments)), nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.comments, id)
	return nil
}

// recordingMailer captures sent mail on a channel so tests can wait for the
// fire-and-forget goroutine.
type recordingMailer struct {
	sent chan sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan sentMail, 8)}
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent <- sentMail{To: to, Subject: subject, Body: body}
	return nil
}

func newFakeRepository() *repository.Repository {
	genres := newFakeGenreRepo()
	reviews := newFakeReviewRepo()
	return &repository.Repository{
		User:       newFakeUserRepo(),
		Category:   newFakeCategoryRepo(),
		Genre:      genres,
		Title:      newFakeTitleRepo(reviews),
		TitleGenre: newFakeTitleGenreRepo(genres),
		Review:     reviews,
		Comment:    newFakeCommentRepo(),
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
