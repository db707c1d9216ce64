package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festreg/config"
	"festreg/internal/adapters/auth"
	"festreg/internal/domain"
	"festreg/internal/repository/memory"
)

const testSecret = "test-secret"

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	issuer domain.TokenIssuer
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	return newAPIClientWithStore(t, memory.New())
}

func newAPIClientWithStore(t *testing.T, store domain.DocumentStore) *apiClient {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          testSecret,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		TxMaxAttempts:      5,
		RequestTimeout:     5 * time.Second,
		Email:              config.EmailConfig{Provider: "noop"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := newHandler(cfg, store, logger)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &apiClient{t: t, server: server, issuer: auth.NewJWTIssuer(testSecret)}
}

func (c *apiClient) do(method, path, userID string, roles []string, body string) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if userID != "" {
		token, err := c.issuer.Issue(userID, userID+"@example.com", roles, time.Hour)
		require.NoError(c.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func participant() []string { return []string{domain.RoleParticipant} }

func TestHandler_Health(t *testing.T) {
	c := newAPIClient(t)
	status, body := c.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
}

func TestHandler_RequiresAuth(t *testing.T) {
	c := newAPIClient(t)
	status, _ := c.do(http.MethodGet, "/registrations/me", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodGet, "/admin/events/stats", "u1", participant(), "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do(http.MethodGet, "/admin/events/stats", "boss", []string{domain.RoleAdmin}, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestHandler_RegistrationFlow(t *testing.T) {
	c := newAPIClient(t)

	status, body := c.do(http.MethodPut, "/registrations/me/solo", "u1", participant(),
		`{"events":["Poem Writing","Pencil Drawing"]}`)
	require.Equal(t, http.StatusOK, status, body)

	status, body = c.do(http.MethodPost, "/teams", "u1", participant(),
		`{"event_title":"MIME","leader_name":"Asha","members":[{"id":"u2","name":"Ben"},{"id":"u3","name":"Cy"}]}`)
	require.Equal(t, http.StatusCreated, status, body)
	team := body["data"].(map[string]any)["team"].(map[string]any)
	assert.Equal(t, "MI101", team["teamChestNo"])

	status, body = c.do(http.MethodGet, "/registrations/me", "u2", participant(), "")
	require.Equal(t, http.StatusOK, status)
	regs := body["data"].(map[string]any)
	assert.EqualValues(t, 1, regs["totalCount"])

	status, body = c.do(http.MethodDelete, "/teams/"+team["id"].(string), "u2", participant(), "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only the leader can delete the team.", body["data"].(map[string]any)["message"])

	status, _ = c.do(http.MethodDelete, "/teams/"+team["id"].(string), "u1", participant(), "")
	assert.Equal(t, http.StatusOK, status)
}

func TestHandler_ClosedEvent(t *testing.T) {
	c := newAPIClient(t)
	admin := []string{domain.RoleAdmin}

	status, _ := c.do(http.MethodPut, "/admin/events/Poem%20Writing/settings", "boss", admin, `{"is_closed":true}`)
	require.Equal(t, http.StatusOK, status)

	status, body := c.do(http.MethodPut, "/registrations/me/solo", "u1", participant(), `{"events":["Poem Writing"]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Registration is closed for Poem Writing", body["data"].(map[string]any)["message"])
}

func TestHandler_TeamChecksEveryMember(t *testing.T) {
	c := newAPIClient(t)

	status, body := c.do(http.MethodPost, "/teams", "u9", participant(),
		`{"event_title":"MIME","leader_name":"Nine","members":[{"id":"a1"},{"id":"a2"}]}`)
	require.Equal(t, http.StatusCreated, status, body)
	status, body = c.do(http.MethodPost, "/teams", "u9", participant(),
		`{"event_title":"Group Dance","leader_name":"Nine","members":[{"id":"b1"},{"id":"b2"},{"id":"b3"},{"id":"b4"}]}`)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = c.do(http.MethodPost, "/teams", "u1", participant(),
		`{"event_title":"Skit","leader_name":"Asha","members":[{"id":"u9","name":"Nine"},{"id":"c1"},{"id":"c2"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Nine: You can register for a maximum of 2 Group events. You have selected 3.", body["data"].(map[string]any)["message"])

	status, body = c.do(http.MethodPost, "/teams", "u1", participant(),
		`{"event_title":"MIME","leader_name":"Asha","members":[{"id":"u9","name":"Nine"},{"id":"c1"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Nine is already in a team for MIME.", body["data"].(map[string]any)["message"])

	status, body = c.do(http.MethodGet, "/registrations/me", "u9", participant(), "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["totalCount"])

	status, body = c.do(http.MethodPut, "/registrations/me/solo", "u1", participant(), `{"events":["Quiz"]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Quiz is not an individual event.", body["data"].(map[string]any)["message"])
}

// unavailableTeams fails every team lookup while leaving the rest of the store intact.
type unavailableTeams struct {
	*memory.Store
}

func (s unavailableTeams) ArrayContains(context.Context, string, string, string) ([]domain.Document, error) {
	return nil, errors.New("teams index unavailable")
}

func TestHandler_ValidateFailsClosed(t *testing.T) {
	c := newAPIClientWithStore(t, unavailableTeams{memory.New()})

	status, body := c.do(http.MethodPost, "/registrations/validate", "u1", participant(), `{"team_event":"MIME"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Nil(t, body["data"])
	assert.Equal(t, "internal_error", body["error"].(map[string]any)["code"])
}
