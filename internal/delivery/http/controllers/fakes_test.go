package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"festreg/internal/delivery/http/helpers"
	"festreg/internal/delivery/http/middleware"
	"festreg/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func withPrincipal(r *http.Request, userID string, roles ...string) *http.Request {
	p := &domain.Principal{UserID: userID, Email: userID + "@example.com", Roles: roles}
	return r.WithContext(middleware.SetPrincipal(r.Context(), p))
}

// resultEnvelope decodes a registration outcome response.
type resultEnvelope struct {
	Data  *helpers.RegistrationResult `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

type fakeRegistrationService struct {
	team     *domain.Team
	err      error
	gotTeam  *domain.CreateTeamInput
	gotSolo  []string
	gotLeave [2]string
	calls    int
}

func (f *fakeRegistrationService) CreateTeam(_ context.Context, in domain.CreateTeamInput) (*domain.Team, error) {
	f.calls++
	f.gotTeam = &in
	if f.err != nil {
		return nil, f.err
	}
	return f.team, nil
}

func (f *fakeRegistrationService) UpdateUserSoloRegistrations(_ context.Context, _ string, events []string) error {
	f.calls++
	f.gotSolo = events
	return f.err
}

func (f *fakeRegistrationService) LeaveTeam(_ context.Context, userID, teamID string) error {
	f.calls++
	f.gotLeave = [2]string{userID, teamID}
	return f.err
}

type fakeQueryService struct {
	regs *domain.UserRegistrations
	err  error
}

func (f *fakeQueryService) LoadUserRegistrations(ctx context.Context, userID string) (*domain.UserRegistrations, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.FetchUserRegistrations(ctx, userID), nil
}

func (f *fakeQueryService) FetchUserRegistrations(_ context.Context, _ string) *domain.UserRegistrations {
	if f.regs == nil {
		return &domain.UserRegistrations{SoloEvents: []string{}, TeamEvents: []*domain.Team{}}
	}
	return f.regs
}

type fakeSettings struct {
	closed map[string]bool
	err    error
}

func (f *fakeSettings) IsRegistrationClosed(_ context.Context, title string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.closed[title], nil
}

func (f *fakeSettings) SetRegistrationClosed(_ context.Context, title string, closed bool) error {
	if f.err != nil {
		return f.err
	}
	if f.closed == nil {
		f.closed = make(map[string]bool)
	}
	f.closed[title] = closed
	return nil
}
