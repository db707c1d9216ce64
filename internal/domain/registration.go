package domain

import (
	"context"
	"time"
)

// Index entry types in event_registrations.
const (
	RegistrationTypeIndividual = "individual"
	RegistrationTypeTeam       = "team"
)

// SoloRegistration is the set of events a participant entered individually.
// swagger:model SoloRegistration
type SoloRegistration struct {
	UserID      string    `json:"userId"`
	Events      []string  `json:"events"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// EventRegistration is the denormalized reporting entry written alongside every
// solo or team registration. Individual entries set UserID/UserChestNo; team
// entries set the team fields.
// swagger:model EventRegistration
type EventRegistration struct {
	Type           string            `json:"type"`
	EventTitle     string            `json:"eventTitle"`
	UserID         string            `json:"userId,omitempty"`
	UserChestNo    string            `json:"userChestNo,omitempty"`
	TeamID         string            `json:"teamId,omitempty"`
	LeaderID       string            `json:"leaderId,omitempty"`
	TeamChestNo    string            `json:"teamChestNo,omitempty"`
	LeaderChestNo  string            `json:"leaderChestNo,omitempty"`
	MemberChestNos map[string]string `json:"memberChestNos,omitempty"`
	MemberIDs      []string          `json:"memberIds,omitempty"`
	RegisteredAt   time.Time         `json:"registeredAt"`
}

// UserRegistrations is a participant's current solo and team registrations.
// swagger:model UserRegistrations
type UserRegistrations struct {
	SoloEvents []string `json:"soloEvents"`
	TeamEvents []*Team  `json:"teamEvents"`
	TotalCount int      `json:"totalCount"`
}

// TeamEventTitles returns the event titles of the participant's teams.
func (u *UserRegistrations) TeamEventTitles() []string {
	titles := make([]string, 0, len(u.TeamEvents))
	for _, t := range u.TeamEvents {
		titles = append(titles, t.EventTitle)
	}
	return titles
}

// ValidationResult is the outcome of a quota check.
// swagger:model ValidationResult
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Message    string   `json:"message,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// RegistrationService performs the atomic registration workflows.
type RegistrationService interface {
	// CreateTeam registers a team for an event, assigning chest numbers as needed.
	CreateTeam(ctx context.Context, in CreateTeamInput) (*Team, error)
	// UpdateUserSoloRegistrations replaces the participant's solo event set with events.
	UpdateUserSoloRegistrations(ctx context.Context, userID string, events []string) error
	// LeaveTeam disbands the team; only its leader may do so.
	LeaveTeam(ctx context.Context, userID, teamID string) error
}

// RegistrationQueryService reconstructs a participant's registrations for display.
type RegistrationQueryService interface {
	// LoadUserRegistrations returns the participant's registrations or the read error.
	LoadUserRegistrations(ctx context.Context, userID string) (*UserRegistrations, error)
	// FetchUserRegistrations is LoadUserRegistrations for rendering: errors are
	// logged and empty registrations returned.
	FetchUserRegistrations(ctx context.Context, userID string) *UserRegistrations
}

// RuleValidator checks a participant's proposed registrations against the
// per-category quotas without touching storage.
type RuleValidator interface {
	Validate(existingSolo, existingTeams, proposedSolo []string, newTeamEvent string) ValidationResult
}
