// Package rules enforces per-participant participation quotas.
package rules

import (
	"fmt"

	"festreg/internal/domain"
)

// Quotas per participant.
const (
	MaxOffStage          = 4
	MaxOnStageIndividual = 3
	MaxGroup             = 2
)

// Counts is a participant's event count per quota bucket.
type Counts struct {
	OffStage          int
	OnStageIndividual int
	Group             int
}

// Validator checks proposed registrations against the quotas. It never touches storage.
type Validator struct {
	catalog domain.EventCatalog
}

// NewValidator returns a Validator resolving event titles through catalog.
func NewValidator(catalog domain.EventCatalog) *Validator {
	return &Validator{catalog: catalog}
}

// Count buckets the given titles. Titles missing from the catalog are ignored.
func (v *Validator) Count(titles ...[]string) Counts {
	var c Counts
	for _, list := range titles {
		for _, title := range list {
			ev, ok := v.catalog.Get(title)
			if !ok {
				continue
			}
			switch {
			case ev.Category == domain.CategoryOffStage:
				c.OffStage++
			case ev.Mode == domain.ModeIndividual:
				c.OnStageIndividual++
			default:
				c.Group++
			}
		}
	}
	return c
}

// Validate reports whether the participant stays within quota after the change.
// proposedSolo replaces existingSolo unless it is nil; newTeamEvent, when not
// empty, is counted in addition to existingTeams. Message names the first
// exceeded bucket in the order off-stage, individual, group; Violations lists
// every exceeded bucket.
func (v *Validator) Validate(existingSolo, existingTeams, proposedSolo []string, newTeamEvent string) domain.ValidationResult {
	solo := existingSolo
	if proposedSolo != nil {
		solo = proposedSolo
	}
	teams := existingTeams
	if newTeamEvent != "" {
		teams = append(append([]string(nil), existingTeams...), newTeamEvent)
	}
	c := v.Count(dedupe(solo), teams)

	var violations []string
	if c.OffStage > MaxOffStage {
		violations = append(violations, fmt.Sprintf("You can register for a maximum of %d Off-Stage events. You have selected %d.", MaxOffStage, c.OffStage))
	}
	if c.OnStageIndividual > MaxOnStageIndividual {
		violations = append(violations, fmt.Sprintf("You can register for a maximum of %d individual On-Stage events. You have selected %d.", MaxOnStageIndividual, c.OnStageIndividual))
	}
	if c.Group > MaxGroup {
		violations = append(violations, fmt.Sprintf("You can register for a maximum of %d Group events. You have selected %d.", MaxGroup, c.Group))
	}
	if len(violations) == 0 {
		return domain.ValidationResult{Valid: true}
	}
	return domain.ValidationResult{Valid: false, Message: violations[0], Violations: violations}
}

func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var _ domain.RuleValidator = (*Validator)(nil)
