package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/kbukum/pageforge/config"
	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
	apperrors "github.com/kbukum/pageforge/errors"
	"github.com/kbukum/pageforge/llm"
	"github.com/kbukum/pageforge/logger"
	"github.com/kbukum/pageforge/store"
)

func box(x, y, w, h float64) *design.Rect {
	return &design.Rect{X: x, Y: y, Width: w, Height: h}
}

// pageTree is a three-section design with a styled hero so token extraction
// has something to find.
func pageTree() *design.Node {
	return &design.Node{
		ID: "root", Kind: design.KindFrame, Name: "Page", Box: box(0, 0, 1440, 3000),
		Children: []*design.Node{
			{
				ID: "n-header", Kind: design.KindFrame, Name: "Header Nav", Box: box(0, 0, 1440, 80),
				Children: []*design.Node{
					{Kind: design.KindText, Name: "text", Text: "Home", Box: box(0, 0, 100, 20), FontFamily: "Inter"},
				},
			},
			{
				ID: "n-hero", Kind: design.KindFrame, Name: "Hero Banner", Box: box(0, 100, 1440, 600),
				Style: map[string]any{
					"fills": []any{
						map[string]any{
							"type":  "SOLID",
							"color": map[string]any{"r": 0.1, "g": 0.2, "b": 0.9},
						},
					},
				},
				Children: []*design.Node{
					{Kind: design.KindText, Name: "text", Text: "Welcome", Box: box(0, 120, 400, 40)},
				},
			},
			{
				ID: "n-footer", Kind: design.KindFrame, Name: "Footer", Box: box(0, 2800, 1440, 200),
				Children: []*design.Node{
					{Kind: design.KindText, Name: "text", Text: "Contact us", Box: box(0, 2810, 200, 20)},
				},
			},
		},
	}
}

func testRequest() Request {
	return Request{
		BusinessContext: content.BusinessContext{
			Name:           "Acme Metrics",
			Overview:       "Analytics dashboards for small teams.",
			TargetAudience: "startup founders",
			Tone:           content.ToneProfessional,
		},
		DesignRoot: pageTree(),
		Policy:     content.DefaultPolicy(),
	}
}

// wordRun returns exactly n space-separated words.
func wordRun(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i+1)
	}
	return strings.Join(words, " ")
}

// generationJSON builds a model-shaped section array. texts holds the
// content per section, positionally.
func generationJSON(t *testing.T, texts ...string) string {
	t.Helper()
	names := []string{"Header Nav", "Hero Banner", "Footer"}
	types := []string{"header", "hero", "footer"}

	sections := make([]design.Section, len(texts))
	for i, txt := range texts {
		s := design.Section{
			ID:    fmt.Sprintf("model-%d", i+1),
			Name:  names[i%len(names)],
			Type:  types[i%len(types)],
			Order: i + 1,
			Comps: design.NewComponents(),
		}
		if err := s.Comps.Set(design.KeyTitle, design.String(s.Name)); err != nil {
			t.Fatal(err)
		}
		if err := s.Comps.Set(design.KeyContent, design.String(txt)); err != nil {
			t.Fatal(err)
		}
		sections[i] = s
	}

	raw, err := json.Marshal(sections)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func newTestOrchestrator(model llm.Client, runs store.Store) *Orchestrator {
	return New(model, runs, logger.NewDefault("pipeline-test"), DefaultConfig())
}

func TestExecuteCompletesWithConformantModel(t *testing.T) {
	gen := generationJSON(t,
		"Acme Metrics keeps navigation simple. "+wordRun(95),
		wordRun(120),
		wordRun(110),
	)
	mock := llm.NewMockClient(`{"Header Nav":"Brand and nav"}`, `{"sections":[]}`, gen)

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if run.Status != StatusCompleted || run.CurrentStage != StageComplete {
		t.Fatalf("run state = %s/%s, want completed/complete", run.Status, run.CurrentStage)
	}
	if len(run.GeneratedSections) != len(run.DesignExtraction) {
		t.Fatalf("generated %d sections for %d extracted", len(run.GeneratedSections), len(run.DesignExtraction))
	}
	for _, stage := range []Stage{
		StageValidation, StageContentPlanning, StageDesignAnalysis,
		StageContentGeneration, StagePageAssembly, StagePreview, StageDownload,
	} {
		rec, ok := run.StageRecords[string(stage)]
		if !ok || !rec.Completed {
			t.Errorf("stage %s not recorded as completed", stage)
		}
	}
	if run.Quality == nil || run.Quality.Score <= 0 || run.Quality.Score > 100 {
		t.Fatalf("quality = %+v, want score in (0,100]", run.Quality)
	}
	if run.Preview == nil || run.Preview.HTML == "" {
		t.Fatal("preview artifact missing")
	}
	if run.Download == nil || run.Download.SizeBytes <= 0 {
		t.Fatalf("download estimate = %+v", run.Download)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("model calls = %d, want 3", mock.CallCount())
	}
}

func TestExecuteTruncatesExtraSections(t *testing.T) {
	// four sections for a three-section extraction
	gen := generationJSON(t, wordRun(120), wordRun(120), wordRun(120), wordRun(120))
	mock := llm.NewMockClient("{}", "{}", gen)

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(run.GeneratedSections) != 3 {
		t.Fatalf("generated = %d, want truncation to 3", len(run.GeneratedSections))
	}
	// identity comes from the extraction, not the model
	if run.GeneratedSections[0].ID != "n-header" {
		t.Fatalf("section id = %q, want n-header", run.GeneratedSections[0].ID)
	}
}

func TestExecuteRejectsShortSectionList(t *testing.T) {
	// two sections for a three-section extraction: reject and synthesize
	gen := generationJSON(t, wordRun(120), wordRun(120))
	mock := llm.NewMockClient("{}", "{}", gen)

	req := testRequest()
	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if len(run.GeneratedSections) != 3 {
		t.Fatalf("generated = %d, want 3 synthesized", len(run.GeneratedSections))
	}
	min, max := req.Policy.Bounds()
	for i := range run.GeneratedSections {
		count, within := content.Validate(&run.GeneratedSections[i], req.Policy)
		if !within {
			t.Errorf("section %d: %d words outside [%d,%d]", i, count, min, max)
		}
	}
}

func TestExecuteExpandsShortContent(t *testing.T) {
	short := wordRun(40)
	gen := generationJSON(t, wordRun(120), short, wordRun(120))
	mock := llm.NewMockClient("{}", "{}", gen)

	req := testRequest()
	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	hero := &run.GeneratedSections[1]
	count, within := content.Validate(hero, req.Policy)
	if !within {
		t.Fatalf("hero still outside bounds at %d words", count)
	}
	v, ok := hero.Comps.Get(design.KeyContent)
	if !ok {
		t.Fatal("hero lost its content component")
	}
	if !strings.HasPrefix(v.Text(), short) {
		t.Fatal("expansion must keep the original content as a prefix")
	}
}

func TestExecuteUnparseableModelOutput(t *testing.T) {
	// prose on every call: plan, analysis, and generation all fall back
	mock := llm.NewMockClient()

	req := testRequest()
	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed despite parse failures", run.Status)
	}
	if len(run.GeneratedSections) != 3 {
		t.Fatalf("generated = %d, want 3", len(run.GeneratedSections))
	}
	if len(run.ContentPlan) != 3 {
		t.Fatalf("heuristic plan has %d themes, want 3", len(run.ContentPlan))
	}
	for i := range run.GeneratedSections {
		if _, within := content.Validate(&run.GeneratedSections[i], req.Policy); !within {
			t.Errorf("synthesized section %d outside bounds", i)
		}
	}
}

func TestExecuteModelFailureFallsBack(t *testing.T) {
	mock := llm.NewMockClient("x")
	mock.Err = apperrors.ModelError("quota exceeded", nil)

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed via fallbacks", run.Status)
	}
	if len(run.GeneratedSections) != 3 {
		t.Fatalf("generated = %d, want 3 synthesized", len(run.GeneratedSections))
	}
}

func TestExecuteValidationFailure(t *testing.T) {
	req := testRequest()
	req.BusinessContext.Overview = ""
	mock := llm.NewMockClient("{}")

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.ErrCodeValidationFailed) {
		t.Fatalf("got %v, want validation failure", err)
	}
	if run.Status != StatusFailed || run.CurrentStage != StageFailed {
		t.Fatalf("run state = %s/%s, want failed/failed", run.Status, run.CurrentStage)
	}
	if run.Error == "" {
		t.Fatal("failed run must carry its error")
	}
	if mock.CallCount() != 0 {
		t.Fatal("no model call should happen after validation fails")
	}
}

func TestExecuteEmptyDesignCompletes(t *testing.T) {
	req := testRequest()
	req.DesignRoot = nil
	mock := llm.NewMockClient("{}")

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if len(run.DesignExtraction) != 0 || len(run.GeneratedSections) != 0 {
		t.Fatal("empty design must not fabricate sections")
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := newTestOrchestrator(llm.NewMockClient("{}"), nil).Execute(ctx, testRequest())
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if run.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
}

func TestExecutePersistsRunDocument(t *testing.T) {
	runs, err := store.Open(context.Background(), config.DatabaseConfig{Path: ":memory:", LogLevel: "silent"}, logger.NewDefault("pipeline-test"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer runs.Close()

	gen := generationJSON(t, wordRun(120), wordRun(120), wordRun(120))
	mock := llm.NewMockClient("{}", "{}", gen)

	run, err := newTestOrchestrator(mock, runs).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	doc, err := runs.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got := gjson.GetBytes(doc, "status").String(); got != StatusCompleted {
		t.Fatalf("persisted status = %q, want %q", got, StatusCompleted)
	}
	if !gjson.GetBytes(doc, "stageRecords.validation.completed").Bool() {
		t.Fatal("validation stage record not persisted")
	}
	if got := len(gjson.GetBytes(doc, "generatedSections").Array()); got != 3 {
		t.Fatalf("persisted sections = %d, want 3", got)
	}
	if gjson.GetBytes(doc, "preview.html").String() == "" {
		t.Fatal("preview not persisted")
	}
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) CreateRun(context.Context, string, []byte) error {
	return apperrors.PersistenceError("create run", nil)
}
func (brokenStore) GetRun(context.Context, string) ([]byte, error) {
	return nil, apperrors.PersistenceError("get run", nil)
}
func (brokenStore) UpdateRunField(context.Context, string, string, interface{}) error {
	return apperrors.PersistenceError("update run", nil)
}
func (brokenStore) RecordStage(context.Context, string, string, interface{}) error {
	return apperrors.PersistenceError("record stage", nil)
}
func (brokenStore) ListRuns(context.Context, int) ([]store.RunSummary, error) {
	return nil, apperrors.PersistenceError("list runs", nil)
}
func (brokenStore) Close() error { return nil }

func TestExecutePersistenceFailureNeverFatal(t *testing.T) {
	gen := generationJSON(t, wordRun(120), wordRun(120), wordRun(120))
	mock := llm.NewMockClient("{}", "{}", gen)

	run, err := newTestOrchestrator(mock, brokenStore{}).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed despite store failures", run.Status)
	}
}

func TestRunStageReplaysPreview(t *testing.T) {
	runs, err := store.Open(context.Background(), config.DatabaseConfig{Path: ":memory:", LogLevel: "silent"}, logger.NewDefault("pipeline-test"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer runs.Close()

	gen := generationJSON(t, wordRun(120), wordRun(120), wordRun(120))
	o := newTestOrchestrator(llm.NewMockClient("{}", "{}", gen), runs)

	run, err := o.Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	replayed, err := o.RunStage(context.Background(), run.ID, StagePreview)
	if err != nil {
		t.Fatalf("RunStage() error = %v", err)
	}
	if replayed.Preview == nil || replayed.Preview.HTML == "" {
		t.Fatal("replayed preview missing")
	}
}

func TestRunStageUnknownRun(t *testing.T) {
	runs, err := store.Open(context.Background(), config.DatabaseConfig{Path: ":memory:", LogLevel: "silent"}, logger.NewDefault("pipeline-test"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer runs.Close()

	o := newTestOrchestrator(llm.NewMockClient("{}"), runs)
	if _, err := o.RunStage(context.Background(), "missing", StagePreview); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestParseStage(t *testing.T) {
	if s, ok := ParseStage("contentGeneration"); !ok || s != StageContentGeneration {
		t.Fatalf("ParseStage(contentGeneration) = %v, %v", s, ok)
	}
	if _, ok := ParseStage("complete"); ok {
		t.Fatal("terminal stages must not be runnable")
	}
	if _, ok := ParseStage("bogus"); ok {
		t.Fatal("unknown stage must not parse")
	}
}

func TestBuildAssetsFromTokens(t *testing.T) {
	assets := buildAssets([]design.Token{
		{Kind: design.TokenColor, Value: "#1a33e6"},
		{Kind: design.TokenFontFamily, Value: "Inter"},
		{Kind: design.TokenSpacing, Value: "24px"},
	})
	if !strings.Contains(assets.Styling, "#1a33e6") {
		t.Fatalf("styling missing color token:\n%s", assets.Styling)
	}
	if !strings.Contains(assets.Styling, "Inter") {
		t.Fatalf("styling missing font token:\n%s", assets.Styling)
	}
	if !strings.Contains(assets.Styling, "--spacing-1: 24px") {
		t.Fatalf("styling missing spacing token:\n%s", assets.Styling)
	}
	if assets.Script == "" {
		t.Fatal("script asset missing")
	}
}

func TestQualityScoreBreakdown(t *testing.T) {
	gen := generationJSON(t,
		"Acme Metrics in the header. "+wordRun(100),
		wordRun(120),
		wordRun(110),
	)
	mock := llm.NewMockClient(`{"Header Nav":"nav"}`, "{}", gen)

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	b := run.Quality.Breakdown
	if b.SectionsPresent != weightSectionsPresent {
		t.Errorf("sectionsPresent = %d, want %d", b.SectionsPresent, weightSectionsPresent)
	}
	if b.AuxiliaryAssets != weightAuxiliaryAssets {
		t.Errorf("auxiliaryAssets = %d, want %d", b.AuxiliaryAssets, weightAuxiliaryAssets)
	}
	if b.BrandMention != weightBrandMention {
		t.Errorf("brandMention = %d, want %d", b.BrandMention, weightBrandMention)
	}
	if run.Quality.Score > 100 {
		t.Errorf("score = %d, exceeds 100", run.Quality.Score)
	}
	sum := b.SectionsPresent + b.TypeCoverage + b.AuxiliaryAssets + b.Metadata + b.BrandMention
	if run.Quality.Score != sum {
		t.Errorf("score %d does not match breakdown sum %d", run.Quality.Score, sum)
	}
}

func TestRenderPreviewContainsSections(t *testing.T) {
	gen := generationJSON(t, wordRun(110), wordRun(110), wordRun(110))
	mock := llm.NewMockClient("{}", "{}", gen)

	run, err := newTestOrchestrator(mock, nil).Execute(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	html := run.Preview.HTML
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<h2") {
		t.Fatalf("preview missing headings:\n%s", html)
	}
	if !strings.Contains(html, "Hero Banner") {
		t.Fatal("preview missing section title")
	}
}
