package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *mailer.Recorder) {
	t.Helper()

	mail := mailer.NewRecorder()
	cfg := &config.Config{
		JWTSecret:       strings.Repeat("x", 32),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	svc := service.NewAuthService(
		repository.NewMockUserRepository(),
		repository.NewMockRefreshTokenRepository(),
		repository.NewMockConfirmationCodeStore(),
		mail,
		cfg,
	)

	r := gin.New()
	NewAuthHandler(svc).RegisterRoutes(r.Group("/api/v1/auth"))
	return r, mail
}

func mailedCode(t *testing.T, mail *mailer.Recorder) string {
	t.Helper()
	require.NotEmpty(t, mail.Sent)
	body := mail.Sent[len(mail.Sent)-1].Body
	idx := strings.LastIndex(body, ": ")
	require.Greater(t, idx, 0)
	return body[idx+2:]
}

func TestSignupEndpoint(t *testing.T) {
	r, mail := newAuthRouter(t)

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
		dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.SignupResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "alice", resp.Username)
	assert.Len(t, mail.Sent, 1)

	t.Run("repeat of the exact pair is 200 with no new mail", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
			dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, mail.Sent, 1)
	})

	t.Run("taken username is 400 with field errors", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
			dto.SignupRequest{Username: "alice", Email: "new@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var fields map[string][]string
		decodeBody(t, w, &fields)
		assert.Contains(t, fields, "username")
	})

	t.Run("reserved username is 400", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
			dto.SignupRequest{Username: "me", Email: "me@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed email is 400", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
			map[string]string{"username": "bob", "email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTokenEndpoint(t *testing.T) {
	r, mail := newAuthRouter(t)

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/signup",
		dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	code := mailedCode(t, mail)

	t.Run("unknown username is 404", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/token",
			dto.TokenRequest{Username: "ghost", ConfirmationCode: code})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong code is 400", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/token",
			dto.TokenRequest{Username: "alice", ConfirmationCode: "wrong"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid exchange is 201 with a token", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/token",
			dto.TokenRequest{Username: "alice", ConfirmationCode: code})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.TokenResponse
		decodeBody(t, w, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("spent code is 400", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/api/v1/auth/token",
			dto.TokenRequest{Username: "alice", ConfirmationCode: code})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTokenEndpointMissingFields(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := performJSON(t, r, http.MethodPost, "/api/v1/auth/token",
		map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
