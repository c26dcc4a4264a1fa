package content

import (
	"math"
	"strings"

	"github.com/kbukum/pageforge/design"
)

// Preset names a content length band.
type Preset string

// The supported length presets.
const (
	PresetShort  Preset = "short"
	PresetMedium Preset = "medium"
	PresetLong   Preset = "long"
	PresetCustom Preset = "custom"
)

// LengthPolicy is the word-count band a generated section's text must
// satisfy. Custom policies target a specific count with 10% slack either
// side.
type LengthPolicy struct {
	Preset Preset `json:"preset" validate:"omitempty,oneof=short medium long custom"`
	// Target is required for the custom preset and ignored otherwise.
	Target int `json:"target,omitempty" validate:"omitempty,min=10"`
}

// DefaultPolicy is applied when the caller supplies none.
func DefaultPolicy() LengthPolicy {
	return LengthPolicy{Preset: PresetMedium}
}

// Bounds returns the inclusive word-count band for the policy.
func (p LengthPolicy) Bounds() (min, max int) {
	switch p.Preset {
	case PresetShort:
		return 50, 100
	case PresetLong:
		return 200, 400
	case PresetCustom:
		if p.Target > 0 {
			slack := int(math.Round(float64(p.Target) * 0.1))
			if slack < 1 {
				slack = 1
			}
			return p.Target - slack, p.Target + slack
		}
		fallthrough
	default:
		return 100, 200
	}
}

// WordCount counts words by splitting on whitespace runs.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// SectionText flattens the text a policy is measured against: the content
// component, falling back to title plus subtitle.
func SectionText(s *design.Section) string {
	if v, ok := s.Comps.Get(design.KeyContent); ok && !v.IsEmpty() {
		return v.Text()
	}
	var parts []string
	if v, ok := s.Comps.Get(design.KeyTitle); ok && !v.IsEmpty() {
		parts = append(parts, v.Text())
	}
	if v, ok := s.Comps.Get(design.KeySubtitle); ok && !v.IsEmpty() {
		parts = append(parts, v.Text())
	}
	return strings.Join(parts, " ")
}

// Validate measures the section's text against the policy band.
func Validate(s *design.Section, policy LengthPolicy) (wordCount int, within bool) {
	wordCount = WordCount(SectionText(s))
	min, max := policy.Bounds()
	return wordCount, wordCount >= min && wordCount <= max
}
