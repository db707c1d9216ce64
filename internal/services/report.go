package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"festreg/internal/domain"
)

type reportService struct {
	store          domain.DocumentStore
	catalog        domain.EventCatalog
	settings       domain.EventSettingsService
	contextTimeout time.Duration
}

// NewReportService returns the admin reports built from the event_registrations index.
func NewReportService(store domain.DocumentStore, catalog domain.EventCatalog, settings domain.EventSettingsService, timeout time.Duration) domain.ReportService {
	return &reportService{store: store, catalog: catalog, settings: settings, contextTimeout: timeout}
}

func (s *reportService) entries(ctx context.Context) ([]*domain.EventRegistration, error) {
	docs, err := s.store.List(ctx, domain.CollectionEventRegistrations)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	out := make([]*domain.EventRegistration, 0, len(docs))
	for _, doc := range docs {
		var entry domain.EventRegistration
		if err := doc.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decode event registration %s: %w", doc.ID, err)
		}
		out = append(out, &entry)
	}
	return out, nil
}

// EventStats returns one row per catalog event, in catalog order.
func (s *reportService) EventStats(ctx context.Context) ([]*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string]*domain.EventStats)
	stats := make([]*domain.EventStats, 0)
	for _, ev := range s.catalog.List() {
		closed, err := s.settings.IsRegistrationClosed(ctx, ev.Title)
		if err != nil {
			return nil, err
		}
		st := &domain.EventStats{EventTitle: ev.Title, Category: string(ev.Category), IsClosed: closed}
		byTitle[ev.Title] = st
		stats = append(stats, st)
	}
	for _, e := range entries {
		st, ok := byTitle[e.EventTitle]
		if !ok {
			continue
		}
		switch e.Type {
		case domain.RegistrationTypeIndividual:
			st.IndividualEntries++
			st.Participants++
		case domain.RegistrationTypeTeam:
			st.TeamEntries++
			st.Participants += len(e.MemberIDs)
		}
	}
	return stats, nil
}

// EventRegistrations lists the index entries of one event ordered by chest number.
func (s *reportService) EventRegistrations(ctx context.Context, eventTitle string) ([]*domain.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, ok := s.catalog.Get(eventTitle); !ok {
		return nil, domain.ErrNotFound
	}
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EventRegistration, 0)
	for _, e := range entries {
		if e.EventTitle == eventTitle {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entryChestNo(out[i]) < entryChestNo(out[j])
	})
	return out, nil
}

func entryChestNo(e *domain.EventRegistration) string {
	if e.Type == domain.RegistrationTypeTeam {
		return e.TeamChestNo
	}
	return e.UserChestNo
}
