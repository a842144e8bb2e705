package definition

import (
	"cmp"
	"slices"
)

// QuestionnaireConfig is the parsed questionnaire artifact.
type QuestionnaireConfig struct {
	SchemaVersion    string            `json:"schemaVersion"`
	Version          string            `json:"version"`
	Steps            []Step            `json:"steps"`
	ConditionalLogic *ConditionalLogic `json:"conditionalLogic,omitempty"`
}

// Step is an ordered group of questions rendered as one screen.
type Step struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Questions        []Question        `json:"questions"` // nil when absent, empty when []
	ConditionalLogic *ConditionalLogic `json:"conditionalLogic,omitempty"`
}

// Question is a single answerable item. Key is the external answer-binding name.
type Question struct {
	ID          string       `json:"id"`
	Key         string       `json:"key"`
	Type        QuestionType `json:"type"`
	Label       string       `json:"label"`
	HelpText    string       `json:"helpText,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options,omitempty"` // nil when absent, empty when []
	MinValue    *float64     `json:"minValue,omitempty"`
	MaxValue    *float64     `json:"maxValue,omitempty"`
}

// Option is one selectable answer of a choice question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ConditionalLogic is a visibility rule.
type ConditionalLogic struct {
	Type       LogicType     `json:"type"`
	Logic      LogicOperator `json:"logic"`
	Conditions []Condition   `json:"conditions"`
}

// Condition compares the answer to QuestionID with Value.
type Condition struct {
	QuestionID string            `json:"questionId"`
	Operator   ConditionOperator `json:"operator"`
	Value      any               `json:"value,omitempty"`
}

// QuestionCount returns the number of questions across all steps.
func (c *QuestionnaireConfig) QuestionCount() int {
	n := 0
	for _, s := range c.Steps {
		n += len(s.Questions)
	}
	return n
}

// ContentManifest is the parsed editorial content artifact.
type ContentManifest struct {
	SchemaVersion string  `json:"schemaVersion"`
	Version       string  `json:"version"`
	Pages         []Page  `json:"pages"`
	Assets        []Asset `json:"assets,omitempty"`
}

// Page is a content screen identified by slug.
type Page struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections"` // nil when absent, empty when []
}

// Section is one renderable block of a page.
type Section struct {
	Key        string         `json:"key"`
	Type       SectionType    `json:"type"`
	Content    map[string]any `json:"content,omitempty"`
	OrderIndex *int           `json:"orderIndex,omitempty"`
}

// Asset is a media reference shared by pages.
type Asset struct {
	Key      string         `json:"key"`
	Type     AssetType      `json:"type"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// OrderedSections returns the page's sections in render order. Sections with
// an orderIndex sort by it; a section without one sorts by its position.
func (p *Page) OrderedSections() []Section {
	type keyed struct {
		sortKey int
		section Section
	}
	ks := make([]keyed, len(p.Sections))
	for i, s := range p.Sections {
		k := i
		if s.OrderIndex != nil {
			k = *s.OrderIndex
		}
		ks[i] = keyed{sortKey: k, section: s}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return cmp.Compare(a.sortKey, b.sortKey)
	})

	out := make([]Section, len(ks))
	for i, k := range ks {
		out[i] = k.section
	}
	return out
}
