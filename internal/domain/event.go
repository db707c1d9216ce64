package domain

import (
	"context"
	"regexp"
)

// Category groups festival events for quota purposes.
type Category string

const (
	CategoryOffStage Category = "off_stage"
	CategoryOnStage  Category = "on_stage"
	CategoryFlagship Category = "flagship"
)

// ParticipationMode is how an event is contested.
type ParticipationMode string

const (
	ModeIndividual ParticipationMode = "individual"
	ModeGroup      ParticipationMode = "group"
)

// DefaultShortCode prefixes team chest numbers for events without their own short code.
const DefaultShortCode = "GRP"

// EventDefinition is one entry of the static festival catalog.
// swagger:model EventDefinition
type EventDefinition struct {
	Title           string            `json:"title" yaml:"title"`
	Category        Category          `json:"category" yaml:"category"`
	Mode            ParticipationMode `json:"participation_mode" yaml:"mode"`
	MinParticipants int               `json:"min_participants" yaml:"min_participants"`
	MaxParticipants int               `json:"max_participants" yaml:"max_participants"`
	ShortCode       string            `json:"short_code,omitempty" yaml:"short_code"`
}

// TeamChestPrefix returns the short code used for team chest numbers.
func (e *EventDefinition) TeamChestPrefix() string {
	if e.ShortCode == "" {
		return DefaultShortCode
	}
	return e.ShortCode
}

// EventCatalog is the read-only lookup of event definitions by title.
type EventCatalog interface {
	Get(title string) (*EventDefinition, bool)
	List() []*EventDefinition
}

// EventSettings is the admin-controlled state of one event.
type EventSettings struct {
	IsClosed bool `json:"isClosed"`
}

// EventSettingsService answers whether an event still admits new entries.
type EventSettingsService interface {
	IsRegistrationClosed(ctx context.Context, eventTitle string) (bool, error)
	SetRegistrationClosed(ctx context.Context, eventTitle string, closed bool) error
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeEventTitle replaces each run of whitespace with an underscore so the
// title can be embedded in a document id.
func NormalizeEventTitle(title string) string {
	return whitespaceRun.ReplaceAllString(title, "_")
}
