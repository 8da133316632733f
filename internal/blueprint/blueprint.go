// Package blueprint defines the Visual Blueprint, the structured
// intermediate representation produced by the language model before the
// deterministic prompt compilation and image rendering steps.
package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Section types.
const (
	TypeBeforeAfter     = "before_after"
	TypeFindingsActions = "findings_actions"
	TypeRecommendations = "recommendations"
	TypeOutcome         = "outcome"
	TypeMetric          = "metric"
)

// Blueprint layouts.
const (
	LayoutBeforeAfter = "before_after_with_recommendations"
	LayoutSplitColumn = "split_two_column"
	LayoutProcessFlow = "process_flow"
	LayoutSummaryGrid = "summary_grid"
)

// Section is a single content unit of a blueprint. Which of the list
// fields are populated depends on the section type.
type Section struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	Heading           string   `json:"heading"`
	Before            []string `json:"before,omitempty"`
	After             []string `json:"after,omitempty"`
	Findings          []string `json:"findings,omitempty"`
	Actions           []string `json:"actions,omitempty"`
	Items             []string `json:"items,omitempty"`
	Points            []string `json:"points,omitempty"`
	VisualMetaphor    string   `json:"visual_metaphor,omitempty"`
	MetaphorDirection string   `json:"metaphor_direction,omitempty"`
	Emphasis          string   `json:"emphasis,omitempty"`
}

// Bullets returns the section's content lines in a single ordered list,
// regardless of which type-specific fields hold them.
func (s *Section) Bullets() []string {
	var out []string
	out = append(out, s.Before...)
	out = append(out, s.After...)
	out = append(out, s.Findings...)
	out = append(out, s.Actions...)
	out = append(out, s.Items...)
	out = append(out, s.Points...)
	return out
}

// Blueprint is the Visual Blueprint produced by the model.
type Blueprint struct {
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Tone         string    `json:"tone,omitempty"`
	Creativity   string    `json:"creativity,omitempty"`
	Layout       string    `json:"layout,omitempty"`
	Palette      string    `json:"palette,omitempty"`
	CustomColors []string  `json:"custom_colors,omitempty"`
	Sections     []Section `json:"sections"`
}

// Parse extracts a blueprint from raw model output. Models wrap JSON in
// markdown fences or leading prose more often than not, so this strips
// a ```json fence first and then falls back to the outermost brace pair
// before giving up. The returned RawMessage is the JSON text that was
// actually decoded, suitable for echoing back to clients and for debug
// artifacts.
func Parse(text string) (*Blueprint, json.RawMessage, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	var bp Blueprint
	if err := json.Unmarshal([]byte(cleaned), &bp); err == nil {
		return &bp, json.RawMessage(cleaned), nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		candidate := cleaned[start : end+1]
		if err := json.Unmarshal([]byte(candidate), &bp); err == nil {
			return &bp, json.RawMessage(candidate), nil
		}
	}

	return nil, nil, errors.New("could not extract valid JSON from response")
}

var (
	validTypes      = []string{TypeBeforeAfter, TypeFindingsActions, TypeRecommendations, TypeOutcome, TypeMetric}
	validLayouts    = []string{LayoutBeforeAfter, LayoutSplitColumn, LayoutProcessFlow, LayoutSummaryGrid}
	validCreativity = []string{"none", "subtle", "moderate", "high"}
	validPalette    = []string{"teal", "warm", "mono", "custom"}
	validTone       = []string{"professional", "executive", "technical"}
	validEmphasis   = []string{"low", "medium", "high"}
)

// Validate checks the blueprint against the schema the prompt compiler
// expects. Optional enum fields are only checked when present.
func (b *Blueprint) Validate() error {
	if b.Title == "" {
		return errors.New("missing required field: title")
	}
	if b.Sections == nil {
		return errors.New("missing required field: sections")
	}
	if len(b.Sections) == 0 {
		return errors.New("'sections' must have at least one section")
	}

	if b.Layout != "" && !contains(validLayouts, b.Layout) {
		return fmt.Errorf("invalid layout: %s. Must be one of %v", b.Layout, validLayouts)
	}
	if b.Creativity != "" && !contains(validCreativity, b.Creativity) {
		return fmt.Errorf("invalid creativity: %s. Must be one of %v", b.Creativity, validCreativity)
	}
	if b.Palette != "" && !contains(validPalette, b.Palette) {
		return fmt.Errorf("invalid palette: %s. Must be one of %v", b.Palette, validPalette)
	}
	if b.Tone != "" && !contains(validTone, b.Tone) {
		return fmt.Errorf("invalid tone: %s. Must be one of %v", b.Tone, validTone)
	}

	for i, section := range b.Sections {
		if section.Type == "" {
			return fmt.Errorf("section %d missing 'type' field", i+1)
		}
		if !contains(validTypes, section.Type) {
			return fmt.Errorf("section %d has invalid type: %s. Must be one of %v", i+1, section.Type, validTypes)
		}
		if section.Heading == "" {
			return fmt.Errorf("section %d missing 'heading' field", i+1)
		}
		if section.Emphasis != "" && !contains(validEmphasis, section.Emphasis) {
			return fmt.Errorf("section %d has invalid emphasis: %s. Must be one of %v", i+1, section.Emphasis, validEmphasis)
		}
	}

	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
