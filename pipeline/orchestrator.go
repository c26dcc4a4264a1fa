package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/pageforge/design"
	apperrors "github.com/kbukum/pageforge/errors"
	"github.com/kbukum/pageforge/llm"
	"github.com/kbukum/pageforge/logger"
	"github.com/kbukum/pageforge/observability"
	"github.com/kbukum/pageforge/resilience"
	"github.com/kbukum/pageforge/store"
)

// Config bounds stage execution.
type Config struct {
	// StageTimeout caps a single stage, model call included.
	StageTimeout time.Duration
	// MaxAttempts is the attempt cap per model call, first attempt included.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
}

// DefaultConfig returns the stage bounds used when the caller passes a zero
// Config.
func DefaultConfig() Config {
	return Config{
		StageTimeout:   45 * time.Second,
		MaxAttempts:    2,
		InitialBackoff: 500 * time.Millisecond,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.StageTimeout <= 0 {
		c.StageTimeout = d.StageTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
}

// Orchestrator drives the stage sequence for each run.
type Orchestrator struct {
	model llm.Client
	runs  store.Store
	seg   *design.Segmenter
	log   *logger.Logger
	cfg   Config
}

// New builds an Orchestrator. The store may be nil for side-effect-free
// diagnostic use; persistence is then skipped entirely.
func New(model llm.Client, runs store.Store, log *logger.Logger, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	if log == nil {
		log = logger.NewDefault("pageforge")
	}
	return &Orchestrator{
		model: model,
		runs:  runs,
		seg:   design.NewSegmenter(log),
		log:   log.WithComponent("pipeline"),
		cfg:   cfg,
	}
}

// Execute runs the full stage sequence for one request. The returned Run
// reflects the final state even when the error is non-nil.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Run, error) {
	run := o.newRun(req)
	o.log.Info("Run started", map[string]interface{}{
		logger.FieldRunID: run.ID,
	})

	o.persistCreate(ctx, run)

	for _, stage := range stageOrder {
		if err := ctx.Err(); err != nil {
			return run, o.fail(run, apperrors.Timeout("pipeline run").WithCause(err))
		}
		if err := o.executeStage(ctx, run, stage); err != nil {
			return run, o.fail(run, err)
		}
	}

	run.CurrentStage = StageComplete
	run.Status = StatusCompleted
	run.UpdatedAt = time.Now().UTC()
	o.persistField(ctx, run.ID, "currentStage", string(StageComplete))
	o.persistField(ctx, run.ID, "status", StatusCompleted)

	o.log.Info("Run completed", map[string]interface{}{
		logger.FieldRunID:    run.ID,
		logger.FieldSections: len(run.GeneratedSections),
	})
	return run, nil
}

// RunStage executes a single stage against a persisted run, for diagnostics.
// It does not advance the sequence beyond the requested stage.
func (o *Orchestrator) RunStage(ctx context.Context, runID string, stage Stage) (*Run, error) {
	run, err := o.loadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := o.executeStage(ctx, run, stage); err != nil {
		return run, err
	}
	return run, nil
}

// executeStage runs one stage under its timeout and records the outcome.
func (o *Orchestrator) executeStage(ctx context.Context, run *Run, stage Stage) error {
	ctx, span := observability.StartSpan(ctx, "pipeline.stage."+string(stage))
	defer span.End()
	observability.SetSpanAttribute(ctx, "run.id", run.ID)

	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	start := time.Now()
	run.CurrentStage = stage

	var data interface{}
	var err error
	switch stage {
	case StageValidation:
		data, err = o.stageValidation(stageCtx, run)
	case StageContentPlanning:
		data, err = o.stageContentPlanning(stageCtx, run)
	case StageDesignAnalysis:
		data, err = o.stageDesignAnalysis(stageCtx, run)
	case StageContentGeneration:
		data, err = o.stageContentGeneration(stageCtx, run)
	case StagePageAssembly:
		data, err = o.stagePageAssembly(stageCtx, run)
	case StagePreview:
		data, err = o.stagePreview(stageCtx, run)
	case StageDownload:
		data, err = o.stageDownload(stageCtx, run)
	default:
		return apperrors.InvalidInput("stage", "unknown stage "+string(stage))
	}

	record := StageRecord{
		Completed:   err == nil,
		CompletedAt: time.Now().UTC(),
		Data:        data,
	}
	run.StageRecords[string(stage)] = record
	run.UpdatedAt = record.CompletedAt
	o.recordStage(ctx, run.ID, stage, record)

	fields := map[string]interface{}{
		logger.FieldRunID:    run.ID,
		logger.FieldStage:    string(stage),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		fields[logger.FieldError] = err.Error()
		o.log.Error("Stage failed", fields)
		return err
	}
	o.log.Info("Stage completed", fields)
	return nil
}

func (o *Orchestrator) newRun(req Request) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:              uuid.NewString(),
		BusinessContext: req.BusinessContext,
		Policy:          req.Policy,
		DesignRoot:      req.DesignRoot,
		CurrentStage:    StageValidation,
		Status:          StatusRunning,
		StageRecords:    make(map[string]StageRecord),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// fail moves the run to its terminal Failed state and passes the originating
// error through.
func (o *Orchestrator) fail(run *Run, err error) error {
	run.CurrentStage = StageFailed
	run.Status = StatusFailed
	run.Error = err.Error()
	run.UpdatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o.persistField(ctx, run.ID, "currentStage", string(StageFailed))
	o.persistField(ctx, run.ID, "status", StatusFailed)
	o.persistField(ctx, run.ID, "error", run.Error)

	o.log.Error("Run failed", map[string]interface{}{
		logger.FieldRunID: run.ID,
		logger.FieldError: err.Error(),
	})
	return err
}

// complete wraps the model call with the retry policy.
func (o *Orchestrator) complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	ctx, span := observability.StartSpan(ctx, "llm.complete")
	defer span.End()

	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = o.cfg.MaxAttempts
	cfg.InitialBackoff = o.cfg.InitialBackoff
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		o.log.Warn("Model call failed, retrying", map[string]interface{}{
			logger.FieldAttempt: attempt,
			logger.FieldError:   err.Error(),
			"backoff":           backoff.String(),
		})
	}
	return resilience.Retry(ctx, cfg, func() (string, error) {
		return o.model.Complete(ctx, prompt)
	})
}

// --- persistence, always non-fatal ---

func (o *Orchestrator) persistCreate(ctx context.Context, run *Run) {
	if o.runs == nil {
		return
	}
	doc, err := json.Marshal(run)
	if err == nil {
		err = o.runs.CreateRun(ctx, run.ID, doc)
	}
	if err != nil {
		o.warnPersist(run.ID, "create run", err)
	}
}

func (o *Orchestrator) persistField(ctx context.Context, id, path string, value interface{}) {
	if o.runs == nil {
		return
	}
	if err := o.runs.UpdateRunField(ctx, id, path, value); err != nil {
		o.warnPersist(id, "update "+path, err)
	}
}

func (o *Orchestrator) recordStage(ctx context.Context, id string, stage Stage, record StageRecord) {
	if o.runs == nil {
		return
	}
	if err := o.runs.RecordStage(ctx, id, string(stage), record); err != nil {
		o.warnPersist(id, "record stage "+string(stage), err)
	}
}

func (o *Orchestrator) warnPersist(id, op string, err error) {
	o.log.Warn("Persistence failed, continuing", map[string]interface{}{
		logger.FieldRunID:     id,
		logger.FieldOperation: op,
		logger.FieldError:     err.Error(),
	})
}

func (o *Orchestrator) loadRun(ctx context.Context, id string) (*Run, error) {
	if o.runs == nil {
		return nil, apperrors.NotFound("run", id)
	}
	doc, err := o.runs.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(doc, &run); err != nil {
		return nil, apperrors.Internal(err)
	}
	if run.StageRecords == nil {
		run.StageRecords = make(map[string]StageRecord)
	}
	return &run, nil
}
