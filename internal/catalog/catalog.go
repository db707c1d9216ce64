// Package catalog holds the static festival event catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"festreg/internal/domain"
)

//go:embed events.yaml
var defaultEvents []byte

type catalogFile struct {
	Events []*domain.EventDefinition `yaml:"events"`
}

type staticCatalog struct {
	byTitle map[string]*domain.EventDefinition
	ordered []*domain.EventDefinition
}

// New builds a catalog from the given definitions. Titles must be unique.
func New(events []*domain.EventDefinition) (domain.EventCatalog, error) {
	c := &staticCatalog{byTitle: make(map[string]*domain.EventDefinition, len(events))}
	for _, e := range events {
		if err := validate(e); err != nil {
			return nil, err
		}
		if _, dup := c.byTitle[e.Title]; dup {
			return nil, fmt.Errorf("duplicate event title %q: %w", e.Title, domain.ErrInvalidInput)
		}
		c.byTitle[e.Title] = e
		c.ordered = append(c.ordered, e)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool { return c.ordered[i].Title < c.ordered[j].Title })
	return c, nil
}

// Default returns the catalog embedded in the binary.
func Default() (domain.EventCatalog, error) {
	return Parse(defaultEvents)
}

// Load reads a catalog from path, or the embedded catalog when path is empty.
func Load(path string) (domain.EventCatalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (domain.EventCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Events)
}

func validate(e *domain.EventDefinition) error {
	if e == nil || e.Title == "" {
		return fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	switch e.Category {
	case domain.CategoryOffStage, domain.CategoryOnStage, domain.CategoryFlagship:
	default:
		return fmt.Errorf("event %q has unknown category %q: %w", e.Title, e.Category, domain.ErrInvalidInput)
	}
	switch e.Mode {
	case domain.ModeIndividual, domain.ModeGroup:
	default:
		return fmt.Errorf("event %q has unknown mode %q: %w", e.Title, e.Mode, domain.ErrInvalidInput)
	}
	if e.MinParticipants < 1 || (e.MaxParticipants > 0 && e.MaxParticipants < e.MinParticipants) {
		return fmt.Errorf("event %q has invalid participant bounds: %w", e.Title, domain.ErrInvalidInput)
	}
	return nil
}

func (c *staticCatalog) Get(title string) (*domain.EventDefinition, bool) {
	e, ok := c.byTitle[title]
	return e, ok
}

func (c *staticCatalog) List() []*domain.EventDefinition {
	out := make([]*domain.EventDefinition, len(c.ordered))
	copy(out, c.ordered)
	return out
}
