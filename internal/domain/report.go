package domain

import "context"

// EventStats summarises the registrations of one event.
// swagger:model EventStats
type EventStats struct {
	EventTitle        string `json:"event_title"`
	Category          string `json:"category"`
	IndividualEntries int    `json:"individual_entries"`
	TeamEntries       int    `json:"team_entries"`
	Participants      int    `json:"participants"`
	IsClosed          bool   `json:"is_closed"`
}

// ReportService builds admin reports from the event_registrations index.
type ReportService interface {
	EventStats(ctx context.Context) ([]*EventStats, error)
	EventRegistrations(ctx context.Context, eventTitle string) ([]*EventRegistration, error)
}
