package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "timebox/internal/platform/errors"
)

const (
	DefaultDailyGoalMin = 60
	FomoBlockOrLater    = "blockOrLater"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func ParseTheme(raw string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(raw))); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", apperrors.ErrInvalidInput, raw)
	}
}

type Category string

const (
	CategoryPhysical  Category = "physical"
	CategoryCognitive Category = "cognitive"
	CategoryEmotional Category = "emotional"
)

func Categories() []Category {
	return []Category{CategoryPhysical, CategoryCognitive, CategoryEmotional}
}

func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == strings.ToLower(strings.TrimSpace(raw)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown strategy category %q", apperrors.ErrInvalidInput, raw)
}

type Kind string

const (
	KindTimer      Kind = "timer"
	KindSwitchMode Kind = "switch-mode"
	KindHydrate    Kind = "hydrate"
	KindAIPrompt   Kind = "ai-prompt"
	KindJournal    Kind = "journal"
	KindCustom     Kind = "custom"
)

// Strategy is one discomfort-coping action. A stored strategy without an
// enabled flag counts as enabled.
type Strategy struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Enabled     bool           `json:"enabled"`
	Kind        Kind           `json:"kind"`
	Payload     map[string]any `json:"payload,omitempty"`
}

func (s *Strategy) UnmarshalJSON(data []byte) error {
	type plain Strategy
	var raw struct {
		plain
		Enabled *bool `json:"enabled"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Strategy(raw.plain)
	s.Enabled = raw.Enabled == nil || *raw.Enabled
	return nil
}

type StrategyPatch struct {
	Label       *string
	Description *string
	Enabled     *bool
}

type Strategies struct {
	Physical  []Strategy `json:"physical"`
	Cognitive []Strategy `json:"cognitive"`
	Emotional []Strategy `json:"emotional"`
}

func (c *Strategies) list(category Category) *[]Strategy {
	switch category {
	case CategoryPhysical:
		return &c.Physical
	case CategoryCognitive:
		return &c.Cognitive
	default:
		return &c.Emotional
	}
}

func (c Strategies) In(category Category) []Strategy {
	return *c.list(category)
}

// Enabled filters every category down to its enabled strategies.
func (c Strategies) Enabled() Strategies {
	var out Strategies
	for _, category := range Categories() {
		for _, s := range c.In(category) {
			if s.Enabled {
				*out.list(category) = append(*out.list(category), s)
			}
		}
	}
	return out
}

func (c Strategies) Find(category Category, id string) (Strategy, bool) {
	for _, s := range c.In(category) {
		if s.ID == id {
			return s, true
		}
	}
	return Strategy{}, false
}

// Update merges patch into the strategy with id; unknown ids are ignored.
func (c *Strategies) Update(category Category, id string, patch StrategyPatch) bool {
	list := *c.list(category)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Label != nil {
			list[i].Label = *patch.Label
		}
		if patch.Description != nil {
			list[i].Description = *patch.Description
		}
		if patch.Enabled != nil {
			list[i].Enabled = *patch.Enabled
		}
		return true
	}
	return false
}

// Toggle flips the enabled flag, or sets it when value is given.
func (c *Strategies) Toggle(category Category, id string, value *bool) bool {
	list := *c.list(category)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if value != nil {
			list[i].Enabled = *value
		} else {
			list[i].Enabled = !list[i].Enabled
		}
		return true
	}
	return false
}

// Reorder moves the strategy at from to index to. Out-of-range indexes are
// ignored.
func (c *Strategies) Reorder(category Category, from, to int) bool {
	list := *c.list(category)
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return false
	}
	moved := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list[:to], append([]Strategy{moved}, list[to:]...)...)
	*c.list(category) = list
	return true
}

type Appearance struct {
	Theme Theme `json:"theme"`
}

type Settings struct {
	DailyGoalMin int        `json:"dailyGoalMin"`
	ThemeTags    []string   `json:"themeTags"`
	FomoPolicy   string     `json:"fomoPolicy"`
	Strategies   Strategies `json:"strategies"`
	Appearance   Appearance `json:"appearance"`
}

// Normalize fills fields a stored document may lack.
func Normalize(s Settings) Settings {
	if s.DailyGoalMin <= 0 {
		s.DailyGoalMin = DefaultDailyGoalMin
	}
	if s.ThemeTags == nil {
		s.ThemeTags = []string{}
	}
	if s.FomoPolicy == "" {
		s.FomoPolicy = FomoBlockOrLater
	}
	if _, err := ParseTheme(string(s.Appearance.Theme)); err != nil {
		s.Appearance.Theme = ThemeSystem
	}
	for _, category := range Categories() {
		list := s.Strategies.list(category)
		if *list == nil {
			*list = []Strategy{}
		}
	}
	return s
}

// CleanTags trims tags and drops blanks.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
