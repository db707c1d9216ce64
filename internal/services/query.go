package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"festreg/internal/domain"
)

type registrationQueryService struct {
	store          domain.DocumentStore
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationQueryService returns the read side used to render a participant's registrations.
func NewRegistrationQueryService(store domain.DocumentStore, logger *slog.Logger, timeout time.Duration) domain.RegistrationQueryService {
	return &registrationQueryService{store: store, logger: logger, contextTimeout: timeout}
}

func emptyRegistrations() *domain.UserRegistrations {
	return &domain.UserRegistrations{SoloEvents: []string{}, TeamEvents: []*domain.Team{}}
}

// LoadUserRegistrations reads the solo record and every team listing userID as a member.
func (s *registrationQueryService) LoadUserRegistrations(ctx context.Context, userID string) (*domain.UserRegistrations, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var solo domain.SoloRegistration
	if _, err := s.store.Get(ctx, domain.SoloRegistrationRef(userID), &solo); err != nil {
		return nil, fmt.Errorf("fetch solo registrations: %w", err)
	}
	docs, err := s.store.ArrayContains(ctx, domain.CollectionTeams, "memberIds", userID)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := emptyRegistrations()
	for _, doc := range docs {
		var team domain.Team
		if err := doc.Decode(&team); err != nil {
			return nil, fmt.Errorf("decode team %s: %w", doc.ID, err)
		}
		out.TeamEvents = append(out.TeamEvents, &team)
	}
	if solo.Events != nil {
		out.SoloEvents = solo.Events
	}
	out.TotalCount = len(out.SoloEvents) + len(out.TeamEvents)
	return out, nil
}

// FetchUserRegistrations never fails: read errors are logged and an empty
// result is returned.
func (s *registrationQueryService) FetchUserRegistrations(ctx context.Context, userID string) *domain.UserRegistrations {
	regs, err := s.LoadUserRegistrations(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch user registrations failed", "user_id", userID, "err", err)
		return emptyRegistrations()
	}
	return regs
}
