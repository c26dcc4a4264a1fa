package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
	apperrors "github.com/kbukum/pageforge/errors"
)

func testSections() []design.Section {
	return []design.Section{
		{ID: "sec-1", Name: "Hero Banner", Type: "hero", Order: 1},
		{ID: "sec-2", Name: "Features", Type: "features", Order: 2},
	}
}

func TestMockClientScript(t *testing.T) {
	m := NewMockClient("first", "second")
	ctx := context.Background()

	got, err := m.Complete(ctx, Prompt{User: "a"})
	if err != nil || got != "first" {
		t.Fatalf("Complete() = %q, %v", got, err)
	}
	got, _ = m.Complete(ctx, Prompt{User: "b"})
	if got != "second" {
		t.Fatalf("second call = %q, want %q", got, "second")
	}
	got, _ = m.Complete(ctx, Prompt{User: "c"})
	if got != "second" {
		t.Fatalf("exhausted script should repeat last entry, got %q", got)
	}
	if m.CallCount() != 3 {
		t.Fatalf("CallCount() = %d, want 3", m.CallCount())
	}
}

func TestMockClientEmptyScriptReturnsProse(t *testing.T) {
	m := NewMockClient()
	got, err := m.Complete(context.Background(), Prompt{User: "x"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if strings.HasPrefix(strings.TrimSpace(got), "[") || strings.HasPrefix(strings.TrimSpace(got), "{") {
		t.Fatalf("empty script should not produce JSON, got %q", got)
	}
}

func TestMockClientHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockClient("x").Complete(ctx, Prompt{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewOpenAIClientValidatesSettings(t *testing.T) {
	if _, err := NewOpenAIClient(Settings{Model: "gpt-4o-mini"}); !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Fatalf("missing api key: got %v", err)
	}
	if _, err := NewOpenAIClient(Settings{APIKey: "sk-test"}); !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Fatalf("missing model: got %v", err)
	}
	if _, err := NewOpenAIClient(Settings{APIKey: "sk-test", Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("valid settings: got %v", err)
	}
}

func TestBuildGenerationPromptStatesExactCount(t *testing.T) {
	bc := content.BusinessContext{Name: "Acme Metrics", Overview: "Analytics for small teams.", Tone: content.ToneProfessional}
	p := BuildGenerationPrompt(bc, testSections(), content.DefaultPolicy())

	if !strings.Contains(p.User, "exactly 2 sections") {
		t.Fatalf("prompt should state the section count:\n%s", p.User)
	}
	if !strings.Contains(p.User, "Acme Metrics") {
		t.Fatal("prompt should mention the business name")
	}
	if !strings.Contains(p.User, "Hero Banner") || !strings.Contains(p.User, "Features") {
		t.Fatal("prompt should list every section")
	}
	if !strings.Contains(p.User, "between 100 and 200 words") {
		t.Fatalf("prompt should carry the length bounds:\n%s", p.User)
	}
	if p.System == "" {
		t.Fatal("generation prompt needs a system instruction")
	}
}

func TestBuildGenerationPromptNamesOnlyDecodableKeys(t *testing.T) {
	bc := content.BusinessContext{Name: "Acme", Overview: "Widgets."}
	p := BuildGenerationPrompt(bc, testSections(), content.DefaultPolicy())

	const marker = "using only these keys: "
	start := strings.Index(p.User, marker)
	if start < 0 {
		t.Fatalf("prompt should enumerate component keys:\n%s", p.User)
	}
	list := p.User[start+len(marker):]
	if end := strings.IndexByte(list, '.'); end >= 0 {
		list = list[:end]
	}
	for _, key := range strings.Split(list, ", ") {
		c := design.NewComponents()
		if err := c.Set(design.ComponentKey(key), design.String("x")); err != nil {
			t.Errorf("prompt names key %q that the component decoder rejects", key)
		}
	}
}

func TestBuildPlanningPromptListsSectionsInOrder(t *testing.T) {
	bc := content.BusinessContext{Name: "Acme", Overview: "Widgets."}
	p := BuildPlanningPrompt(bc, testSections())

	hero := strings.Index(p.User, "Hero Banner")
	feat := strings.Index(p.User, "Features")
	if hero < 0 || feat < 0 || hero > feat {
		t.Fatalf("sections out of order in prompt:\n%s", p.User)
	}
	if !strings.Contains(p.User, "customers") {
		t.Fatal("missing audience should default to customers")
	}
}

func TestBuildAnalysisPromptEmbedsSectionJSON(t *testing.T) {
	p := BuildAnalysisPrompt(testSections())
	if !strings.Contains(p.User, `"sec-1"`) {
		t.Fatalf("analysis prompt should embed section ids:\n%s", p.User)
	}
}
