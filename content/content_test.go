package content

import (
	"strings"
	"testing"

	"github.com/kbukum/pageforge/design"
)

var testBC = BusinessContext{
	Name:           "Acme Robotics",
	Overview:       "building affordable warehouse robots",
	TargetAudience: "operations teams",
	Tone:           ToneProfessional,
}

func sectionWithContent(sectionType, text string) *design.Section {
	s := &design.Section{Type: sectionType, Comps: design.NewComponents()}
	_ = s.Comps.Set(design.KeyContent, design.String(text))
	return s
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one two three", 3},
		{"  spaced \t out\nwords  ", 3},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		policy  LengthPolicy
		wantMin int
		wantMax int
	}{
		{LengthPolicy{Preset: PresetShort}, 50, 100},
		{LengthPolicy{Preset: PresetMedium}, 100, 200},
		{LengthPolicy{Preset: PresetLong}, 200, 400},
		{LengthPolicy{Preset: PresetCustom, Target: 150}, 135, 165},
		{LengthPolicy{Preset: PresetCustom}, 100, 200}, // missing target falls back
		{LengthPolicy{}, 100, 200},
	}
	for _, tt := range tests {
		min, max := tt.policy.Bounds()
		if min != tt.wantMin || max != tt.wantMax {
			t.Errorf("Bounds(%+v) = (%d,%d), want (%d,%d)", tt.policy, min, max, tt.wantMin, tt.wantMax)
		}
	}
}

func TestValidate(t *testing.T) {
	s := sectionWithContent("hero", strings.Repeat("word ", 120))
	count, within := Validate(s, LengthPolicy{Preset: PresetMedium})
	if count != 120 {
		t.Errorf("expected 120 words, got %d", count)
	}
	if !within {
		t.Error("expected 120 words to satisfy medium policy")
	}

	short := sectionWithContent("hero", "just a few words")
	if _, within := Validate(short, LengthPolicy{Preset: PresetMedium}); within {
		t.Error("expected 4 words to fail medium policy")
	}
}

func TestValidate_FallsBackToTitleSubtitle(t *testing.T) {
	s := &design.Section{Type: "hero", Comps: design.NewComponents()}
	_ = s.Comps.Set(design.KeyTitle, design.String("Big Headline"))
	_ = s.Comps.Set(design.KeySubtitle, design.String("smaller words below"))

	count, _ := Validate(s, LengthPolicy{Preset: PresetShort})
	if count != 5 {
		t.Errorf("expected 5 words from title+subtitle, got %d", count)
	}
}

func TestExpand_PreservesOriginalAsPrefix(t *testing.T) {
	original := strings.TrimSpace(strings.Repeat("original words here more ", 10)) // 40 words
	s := sectionWithContent("hero", original)
	policy := LengthPolicy{Preset: PresetMedium}

	count, _ := Validate(s, policy)
	min, _ := policy.Bounds()
	expanded := Expand(s, testBC, min-count)

	if !strings.HasPrefix(expanded, original) {
		t.Error("expansion lost the original content prefix")
	}
	if got := WordCount(expanded); got < min {
		t.Errorf("expected at least %d words after expansion, got %d", min, got)
	}
}

func TestExpand_WithinBoundsAfterExpansion(t *testing.T) {
	policies := []LengthPolicy{
		{Preset: PresetShort},
		{Preset: PresetMedium},
		{Preset: PresetLong},
		{Preset: PresetCustom, Target: 60},
	}
	for _, policy := range policies {
		s := sectionWithContent("features", "six words of seed content here")
		count, _ := Validate(s, policy)
		min, max := policy.Bounds()
		expanded := Expand(s, testBC, min-count)
		got := WordCount(expanded)
		if got < min || got > max {
			t.Errorf("policy %+v: expanded to %d words, want [%d,%d]", policy, got, min, max)
		}
	}
}

func TestExpand_Deterministic(t *testing.T) {
	s := sectionWithContent("about", "seed")
	a := Expand(s, testBC, 50)
	b := Expand(s, testBC, 50)
	if a != b {
		t.Error("expansion is not deterministic")
	}
}

func TestExpand_MentionsBusiness(t *testing.T) {
	s := sectionWithContent("contact", "seed")
	out := Expand(s, testBC, 60)
	if !strings.Contains(out, testBC.Name) {
		t.Error("expected filler to mention the business name")
	}
}

func TestSynthesize_ConformantByConstruction(t *testing.T) {
	for _, sectionType := range []string{"hero", "features", "about", "contact", "pricing", "unheard-of"} {
		for _, policy := range []LengthPolicy{
			{Preset: PresetShort}, {Preset: PresetMedium}, {Preset: PresetCustom, Target: 40},
		} {
			text := Synthesize(sectionType, testBC, policy)
			min, max := policy.Bounds()
			got := WordCount(text)
			if got < min || got > max {
				t.Errorf("Synthesize(%q, %+v) = %d words, want [%d,%d]", sectionType, policy, got, min, max)
			}
		}
	}
}
