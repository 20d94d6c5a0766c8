package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/internal/data/repository"
	"github.com/qwaszxg/api-yamdb/internal/dto/request"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\d{6}`)

func newTestAuthService(t *testing.T, repo *repository.Repository, mail *recordingMailer) AuthService {
	t.Helper()

	jwtManager, err := utils.NewJWTManager("test-secret-at-least-16-chars", 1)
	require.NoError(t, err)

	config := &utils.Config{
		Code: utils.CodeConfig{Length: 6},
	}

	return NewAuthService(repo, config, jwtManager, mail, testLogger())
}

// waitForMail blocks until the signup goroutine delivers.
func waitForMail(t *testing.T, mail *recordingMailer) sentMail {
	t.Helper()
	select {
	case m := <-mail.sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmation email sent")
		return sentMail{}
	}
}

func TestSignUp_CreatesUserAndSendsCode(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	resp, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, "reader@example.com", resp.Email)

	sent := waitForMail(t, mail)
	assert.Equal(t, "reader@example.com", sent.To)
	assert.Regexp(t, codePattern, sent.Body)

	user, err := repo.User.FindByUsername(context.Background(), "reader")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.RoleUser, user.Role)
	require.NotNil(t, user.ConfirmationCode)
	// Stored at rest as a bcrypt hash, never the plain code
	assert.NotEqual(t, codePattern.FindString(sent.Body), *user.ConfirmationCode)
	assert.True(t, utils.CheckConfirmationCode(codePattern.FindString(sent.Body), *user.ConfirmationCode))
}

func TestSignUp_RepeatRegeneratesCode(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	req := &request.SignUpRequest{Username: "reader", Email: "reader@example.com"}

	_, err := svc.SignUp(context.Background(), req)
	require.NoError(t, err)
	first := waitForMail(t, mail)
	firstCode := codePattern.FindString(first.Body)

	_, err = svc.SignUp(context.Background(), req)
	require.NoError(t, err)
	second := waitForMail(t, mail)
	secondCode := codePattern.FindString(second.Body)

	// Old code stops working after the second signup
	_, err = svc.GetToken(context.Background(), &request.GetTokenRequest{
		Username:         "reader",
		ConfirmationCode: firstCode,
	})
	if firstCode != secondCode {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid confirmation code")
	}

	_, err = svc.GetToken(context.Background(), &request.GetTokenRequest{
		Username:         "reader",
		ConfirmationCode: secondCode,
	})
	assert.NoError(t, err)
}

func TestSignUp_UsernameTakenByOtherEmail(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)
	waitForMail(t, mail)

	_, err = svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "other@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestSignUp_SameEmailDifferentUsernameAllowed(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "shared@example.com",
	})
	require.NoError(t, err)
	waitForMail(t, mail)

	// Email uniqueness is deliberately not enforced on signup
	_, err = svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "writer", Email: "shared@example.com",
	})
	assert.NoError(t, err)
	waitForMail(t, mail)
}

func TestSignUp_MeReserved(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAuthService(t, repo, newRecordingMailer())

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "me", Email: "me@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestSignUp_ValidationFailure(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAuthService(t, repo, newRecordingMailer())

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "not-an-email",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestGetToken_UnknownUser(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestAuthService(t, repo, newRecordingMailer())

	_, err := svc.GetToken(context.Background(), &request.GetTokenRequest{
		Username:         "ghost",
		ConfirmationCode: "123456",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetToken_WrongCode(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)
	waitForMail(t, mail)

	_, err = svc.GetToken(context.Background(), &request.GetTokenRequest{
		Username:         "reader",
		ConfirmationCode: "000000000",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid confirmation code")
}

func TestGetToken_RoundTripCarriesRole(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)
	sent := waitForMail(t, mail)
	code := codePattern.FindString(sent.Body)

	resp, err := svc.GetToken(context.Background(), &request.GetTokenRequest{
		Username:         "reader",
		ConfirmationCode: code,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	jwtManager, err := utils.NewJWTManager("test-secret-at-least-16-chars", 1)
	require.NoError(t, err)

	claims, err := jwtManager.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, string(entity.RoleUser), claims.Role)
	assert.False(t, claims.Superuser)
}

func TestGetToken_CodeStaysValidUntilReplaced(t *testing.T) {
	repo := newFakeRepository()
	mail := newRecordingMailer()
	svc := newTestAuthService(t, repo, mail)

	_, err := svc.SignUp(context.Background(), &request.SignUpRequest{
		Username: "reader", Email: "reader@example.com",
	})
	require.NoError(t, err)
	sent := waitForMail(t, mail)
	code := codePattern.FindString(sent.Body)

	// The code is reusable: no single-use marker, no expiry
	for i := 0; i < 2; i++ {
		_, err := svc.GetToken(context.Background(), &request.GetTokenRequest{
			Username:         "reader",
			ConfirmationCode: code,
		})
		assert.NoError(t, err)
	}
}
