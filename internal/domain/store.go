package domain

import (
	"context"
	"encoding/json"
)

// Collection names of the registration document model.
const (
	CollectionUsers              = "users"
	CollectionRegistrations      = "registrations"
	CollectionTeams              = "teams"
	CollectionEventRegistrations = "event_registrations"
	CollectionCounters           = "counters"
	CollectionEventSettings      = "event_settings"
	CollectionTeamMemberships    = "team_memberships"
)

// UserChestCounterID is the id of the global participant chest number counter.
const UserChestCounterID = "user_chest_numbers"

// DocRef addresses a single document.
type DocRef struct {
	Collection string
	ID         string
}

func (r DocRef) String() string { return r.Collection + "/" + r.ID }

// Document is a raw stored document returned by collection reads.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into dest.
func (d Document) Decode(dest any) error {
	return json.Unmarshal(d.Data, dest)
}

// Transaction is the read-then-write unit handed to a transaction body.
// All Get calls must precede the first Set, Merge or Delete.
type Transaction interface {
	// Get loads ref into dest and reports whether it exists. The observed version
	// is validated at commit time.
	Get(ref DocRef, dest any) (bool, error)
	// Set replaces the document at ref.
	Set(ref DocRef, data any) error
	// Merge writes the given top-level fields, creating the document if needed.
	Merge(ref DocRef, fields map[string]any) error
	// Delete removes the document at ref. Deleting a missing document is not an error.
	Delete(ref DocRef) error
}

// DocumentStore is a document database with optimistic transactions.
// RunTransaction may invoke fn several times when a concurrent commit touched a
// document fn read, so fn must not have side effects outside tx.
type DocumentStore interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
	Get(ctx context.Context, ref DocRef, dest any) (bool, error)
	List(ctx context.Context, collection string) ([]Document, error)
	// ArrayContains returns documents of collection whose array field contains value.
	ArrayContains(ctx context.Context, collection, field, value string) ([]Document, error)
}

// UserRef addresses a participant profile.
func UserRef(uid string) DocRef { return DocRef{Collection: CollectionUsers, ID: uid} }

// SoloRegistrationRef addresses a participant's individual registrations.
func SoloRegistrationRef(uid string) DocRef {
	return DocRef{Collection: CollectionRegistrations, ID: uid}
}

// TeamRef addresses a team.
func TeamRef(teamID string) DocRef { return DocRef{Collection: CollectionTeams, ID: teamID} }

// TeamMembershipsRef addresses the team memberships of a participant.
func TeamMembershipsRef(uid string) DocRef {
	return DocRef{Collection: CollectionTeamMemberships, ID: uid}
}

// EventRegistrationRef addresses the reporting index entry of a participant or team in an event.
func EventRegistrationRef(eventTitle, id string) DocRef {
	return DocRef{Collection: CollectionEventRegistrations, ID: NormalizeEventTitle(eventTitle) + "_" + id}
}

// UserChestCounterRef addresses the global participant chest number counter.
func UserChestCounterRef() DocRef {
	return DocRef{Collection: CollectionCounters, ID: UserChestCounterID}
}

// TeamCounterRef addresses the team sequence counter of an event.
func TeamCounterRef(eventTitle string) DocRef {
	return DocRef{Collection: CollectionCounters, ID: "team_" + eventTitle}
}

// EventSettingsRef addresses the settings of an event.
func EventSettingsRef(eventTitle string) DocRef {
	return DocRef{Collection: CollectionEventSettings, ID: eventTitle}
}

// Counter is a monotonic integer document.
type Counter struct {
	Count int `json:"count"`
}
