package pipeline

import (
	"time"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
)

// Stage names one step of the synthesis sequence.
type Stage string

const (
	StageValidation        Stage = "validation"
	StageContentPlanning   Stage = "contentPlanning"
	StageDesignAnalysis    Stage = "designAnalysis"
	StageContentGeneration Stage = "contentGeneration"
	StagePageAssembly      Stage = "pageAssembly"
	StagePreview           Stage = "preview"
	StageDownload          Stage = "download"
	StageComplete          Stage = "complete"
	StageFailed            Stage = "failed"
)

// stageOrder is the strict execution sequence. Complete and Failed are
// terminal and never appear here.
var stageOrder = []Stage{
	StageValidation,
	StageContentPlanning,
	StageDesignAnalysis,
	StageContentGeneration,
	StagePageAssembly,
	StagePreview,
	StageDownload,
}

// ParseStage maps a wire name to a runnable stage.
func ParseStage(name string) (Stage, bool) {
	for _, s := range stageOrder {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// StatusRunning and friends are the run-level states mirrored into the
// store's status column.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StageRecord is the durable outcome of one stage.
type StageRecord struct {
	Completed   bool        `json:"completed"`
	CompletedAt time.Time   `json:"completedAt"`
	Data        interface{} `json:"data,omitempty"`
}

// Request starts a run: the business context, the ingested design tree, and
// the length policy for generated copy.
type Request struct {
	BusinessContext content.BusinessContext `json:"businessContext"`
	DesignRoot      *design.Node            `json:"designRoot"`
	Policy          content.LengthPolicy    `json:"lengthPolicy"`
}

// Run is the full state of one pipeline execution. It is the document the
// store persists.
type Run struct {
	ID                string                  `json:"id"`
	BusinessContext   content.BusinessContext `json:"businessContext"`
	Policy            content.LengthPolicy    `json:"lengthPolicy"`
	DesignRoot        *design.Node            `json:"designRoot,omitempty"`
	DesignExtraction  []design.Section        `json:"designExtraction"`
	GeneratedSections []design.Section        `json:"generatedSections,omitempty"`
	Tokens            []design.Token          `json:"tokens,omitempty"`
	ContentPlan       map[string]string       `json:"contentPlan,omitempty"`
	CurrentStage      Stage                   `json:"currentStage"`
	Status            string                  `json:"status"`
	StageRecords      map[string]StageRecord  `json:"stageRecords"`
	Quality           *QualityReport          `json:"qualityReport,omitempty"`
	Assets            *AuxiliaryAssets        `json:"assets,omitempty"`
	Preview           *PreviewArtifact        `json:"preview,omitempty"`
	Download          *DownloadEstimate       `json:"download,omitempty"`
	Error             string                  `json:"error,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// QualityReport scores the assembled page out of 100.
type QualityReport struct {
	Score     int      `json:"score"`
	Breakdown Scoring  `json:"breakdown"`
	Notes     []string `json:"notes,omitempty"`
}

// Scoring itemizes the weighted components of the quality score.
type Scoring struct {
	SectionsPresent int `json:"sectionsPresent"`
	TypeCoverage    int `json:"typeCoverage"`
	AuxiliaryAssets int `json:"auxiliaryAssets"`
	Metadata        int `json:"metadata"`
	BrandMention    int `json:"brandMention"`
}

// AuxiliaryAssets are the styling and script snippets derived from design
// tokens during assembly.
type AuxiliaryAssets struct {
	Styling string `json:"styling,omitempty"`
	Script  string `json:"script,omitempty"`
}

// PreviewArtifact is the rendered HTML fragment plus a stable reference.
type PreviewArtifact struct {
	Ref        string    `json:"ref"`
	HTML       string    `json:"html"`
	SizeBytes  int       `json:"sizeBytes"`
	RenderedAt time.Time `json:"renderedAt"`
}

// DownloadEstimate describes the exportable page bundle.
type DownloadEstimate struct {
	Format    string `json:"format"`
	SizeBytes int    `json:"sizeBytes"`
	Files     int    `json:"files"`
}
