package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"festreg/internal/domain"
)

type eventSettingsService struct {
	store domain.DocumentStore
	cache *cache.Cache
}

// NewEventSettingsService returns the registration-closed lookup. Lookups are
// cached for ttl; a non-positive ttl disables caching.
func NewEventSettingsService(store domain.DocumentStore, ttl time.Duration) domain.EventSettingsService {
	s := &eventSettingsService{store: store}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *eventSettingsService) IsRegistrationClosed(ctx context.Context, eventTitle string) (bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(eventTitle); ok {
			return v.(bool), nil
		}
	}
	var settings domain.EventSettings
	if _, err := s.store.Get(ctx, domain.EventSettingsRef(eventTitle), &settings); err != nil {
		return false, fmt.Errorf("read event settings: %w", err)
	}
	if s.cache != nil {
		s.cache.SetDefault(eventTitle, settings.IsClosed)
	}
	return settings.IsClosed, nil
}

func (s *eventSettingsService) SetRegistrationClosed(ctx context.Context, eventTitle string, closed bool) error {
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx domain.Transaction) error {
		return tx.Merge(domain.EventSettingsRef(eventTitle), map[string]any{"isClosed": closed})
	})
	if err != nil {
		return fmt.Errorf("write event settings: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(eventTitle)
	}
	return nil
}
