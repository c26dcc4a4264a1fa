package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/pageforge/design"
	apperrors "github.com/kbukum/pageforge/errors"
	"github.com/kbukum/pageforge/logger"
	"github.com/kbukum/pageforge/pipeline"
	"github.com/kbukum/pageforge/store"
	"github.com/kbukum/pageforge/version"
)

// API bundles the pipeline collaborators behind the HTTP routes.
type API struct {
	orc  *pipeline.Orchestrator
	runs store.Store
	seg  *design.Segmenter
	log  *logger.Logger
}

// NewAPI wires the handlers.
func NewAPI(orc *pipeline.Orchestrator, runs store.Store, log *logger.Logger) *API {
	return &API{
		orc:  orc,
		runs: runs,
		seg:  design.NewSegmenter(log),
		log:  log.WithComponent("api"),
	}
}

// Register mounts all routes on the engine.
func (a *API) Register(engine *gin.Engine) {
	engine.GET("/healthz", a.healthz)

	v1 := engine.Group("/api/v1")
	v1.POST("/runs", a.createRun)
	v1.GET("/runs", a.listRuns)
	v1.GET("/runs/:id", a.getRun)
	v1.POST("/runs/:id/stages/:stage", a.runStage)
	v1.POST("/segment", a.segment)
}

// createRun executes the full pipeline synchronously and returns the final
// run. Per-stage progress is persisted, so long runs can be polled from a
// second client.
func (a *API) createRun(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	run, err := a.orc.Execute(c.Request.Context(), req)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, run)
}

func (a *API) getRun(c *gin.Context) {
	doc, err := a.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, json.RawMessage(doc))
}

func (a *API) listRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondWithError(c, apperrors.InvalidInput("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := a.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, runs)
}

func (a *API) runStage(c *gin.Context) {
	stage, ok := pipeline.ParseStage(c.Param("stage"))
	if !ok {
		RespondWithError(c, apperrors.InvalidInput("stage", "unknown stage "+c.Param("stage")))
		return
	}

	run, err := a.orc.RunStage(c.Request.Context(), c.Param("id"), stage)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, run)
}

// segmentRequest is the diagnostic segmentation input.
type segmentRequest struct {
	DesignRoot *design.Node `json:"designRoot" binding:"required"`
}

// segment runs the segmenter alone, no model and no persistence.
func (a *API) segment(c *gin.Context) {
	var req segmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	sections := a.seg.Segment(req.DesignRoot)
	tokens := a.seg.Tokens(req.DesignRoot)
	RespondOK(c, gin.H{
		"sections": sections,
		"tokens":   tokens,
	})
}

func (a *API) healthz(c *gin.Context) {
	storeStatus := "ok"
	if a.runs == nil {
		storeStatus = "disabled"
	} else if _, err := a.runs.ListRuns(c.Request.Context(), 1); err != nil {
		storeStatus = "unavailable"
	}

	status := http.StatusOK
	overall := "ok"
	if storeStatus == "unavailable" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":  overall,
		"store":   storeStatus,
		"version": version.Get(),
	})
}
