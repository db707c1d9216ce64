package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"festreg/internal/delivery/http/controllers"
	"festreg/internal/domain"
)

type stubVerifier map[string]*domain.Principal

func (s stubVerifier) Verify(token string) (*domain.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, errors.New("invalid token")
}

func TestNewRouter_Guards(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := stubVerifier{
		"participant": {UserID: "u1", Roles: []string{domain.RoleParticipant}},
	}
	mux := NewRouter(Controllers{
		Events:        &controllers.EventController{Logger: logger},
		Registrations: &controllers.RegistrationController{Logger: logger},
		Teams:         &controllers.TeamController{Logger: logger},
		Admin:         &controllers.AdminController{Logger: logger},
	}, verifier, logger)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "events need a token", method: http.MethodGet, path: "/events", wantStatus: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodPost, path: "/teams", token: "forged", wantStatus: http.StatusUnauthorized},
		{name: "admin needs role", method: http.MethodGet, path: "/admin/events/stats", token: "participant", wantStatus: http.StatusForbidden},
		{name: "admin settings need role", method: http.MethodPut, path: "/admin/events/MIME/settings", token: "participant", wantStatus: http.StatusForbidden},
		{name: "wrong method", method: http.MethodPost, path: "/health", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
