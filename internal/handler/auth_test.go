package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

type stubAuthService struct {
	token string
	user  *model.User
	err   error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, s.user, nil
}

func (s *stubAuthService) EnsureAdmin(ctx context.Context) error { return nil }

func TestLoginReturnsTokenAndUser(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		token: "tok-123",
		user:  &model.User{ID: "u-1", Username: "jdoe", Role: model.RoleUser},
	}, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"jdoe","password":"secret"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "tok-123", body.Token)
	assert.Equal(t, "jdoe", body.User.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		err: apperr.NewValidation("invalid username or password"),
	}, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"jdoe","password":"nope"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.NewNotFound("contract c-1"), http.StatusNotFound},
		{"validation", apperr.NewValidation("bad input"), http.StatusBadRequest},
		{"conflict", apperr.NewConflict("duplicate"), http.StatusConflict},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
