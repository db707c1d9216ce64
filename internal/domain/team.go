package domain

import (
	"sort"
	"time"
)

// Member roles inside a team.
const (
	TeamRoleLeader = "leader"
	TeamRoleMember = "member"
)

// Status values for teams and their members.
const (
	TeamStatusActive   = "active"
	MemberStatusJoined = "accepted"
)

// TeamMember is one participant listed on a team.
// swagger:model TeamMember
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Team is a group registration for one event.
// swagger:model Team
type Team struct {
	ID          string       `json:"id"`
	EventID     string       `json:"eventId"`
	EventTitle  string       `json:"eventTitle"`
	LeaderID    string       `json:"leaderId"`
	Members     []TeamMember `json:"members"`
	MemberIDs   []string     `json:"memberIds"`
	TeamName    string       `json:"teamName,omitempty"`
	Status      string       `json:"status"`
	TeamChestNo string       `json:"teamChestNo"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// MemberInput identifies a participant the leader registers on a team.
type MemberInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateTeamInput carries everything a leader supplies to register a team.
type CreateTeamInput struct {
	LeaderID    string
	LeaderName  string
	LeaderEmail string
	EventTitle  string
	TeamName    string
	Members     []MemberInput
}

// TeamMemberships maps the ids of a participant's teams to their event titles.
// It is kept in step with the teams collection so registration transactions can
// read a participant's team events as a single document.
type TeamMemberships struct {
	Teams map[string]string `json:"teams"`
}

// EventTitles returns the event titles of the participant's teams, sorted.
func (m *TeamMemberships) EventTitles() []string {
	titles := make([]string, 0, len(m.Teams))
	for _, title := range m.Teams {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// InEvent reports whether the participant already belongs to a team for eventTitle.
func (m *TeamMemberships) InEvent(eventTitle string) bool {
	for _, title := range m.Teams {
		if title == eventTitle {
			return true
		}
	}
	return false
}
