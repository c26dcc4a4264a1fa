package pipeline

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
	"github.com/kbukum/pageforge/llm"
	"github.com/kbukum/pageforge/logger"
	"github.com/kbukum/pageforge/modelout"
	"github.com/kbukum/pageforge/validation"
)

// stageValidation checks the business context and segments the design tree.
// An empty extraction is recorded, not an error.
func (o *Orchestrator) stageValidation(ctx context.Context, run *Run) (interface{}, error) {
	if err := validation.Struct(run.BusinessContext); err != nil {
		return nil, err
	}

	run.DesignExtraction = o.seg.Segment(run.DesignRoot)
	run.Tokens = o.seg.Tokens(run.DesignRoot)

	if len(run.DesignExtraction) == 0 {
		o.log.Warn("No qualifying sections in design tree", map[string]interface{}{
			logger.FieldRunID: run.ID,
		})
	}

	o.persistField(ctx, run.ID, "designExtraction", run.DesignExtraction)
	o.persistField(ctx, run.ID, "tokens", run.Tokens)

	return map[string]interface{}{
		"sections": len(run.DesignExtraction),
		"tokens":   len(run.Tokens),
	}, nil
}

// stageContentPlanning asks the model for per-section themes. Any model or
// parse failure degrades to a heuristic plan; this stage never fails a run.
func (o *Orchestrator) stageContentPlanning(ctx context.Context, run *Run) (interface{}, error) {
	source := "model"
	plan := map[string]string{}

	if len(run.DesignExtraction) > 0 {
		raw, err := o.complete(ctx, llm.BuildPlanningPrompt(run.BusinessContext, run.DesignExtraction))
		if err == nil {
			plan = parsePlan(raw, run.DesignExtraction)
		}
		if err != nil || len(plan) == 0 {
			source = "heuristic"
			plan = heuristicPlan(run.BusinessContext, run.DesignExtraction)
			o.log.Warn("Content plan falling back to heuristic", map[string]interface{}{
				logger.FieldRunID: run.ID,
			})
		}
	}

	run.ContentPlan = plan
	o.persistField(ctx, run.ID, "contentPlan", plan)
	return map[string]interface{}{"source": source, "themes": len(plan)}, nil
}

// parsePlan reads the model's name-to-theme object. Only known section names
// survive.
func parsePlan(raw string, sections []design.Section) map[string]string {
	payload, ok := modelout.Parse(raw)
	if !ok {
		return nil
	}
	plan := make(map[string]string, len(sections))
	for _, s := range sections {
		if v, found := payload.Meta[s.Name]; found {
			theme := gjson.ParseBytes(v).String()
			if theme != "" {
				plan[s.Name] = theme
			}
		}
	}
	return plan
}

// stageDesignAnalysis lets the model refine section types the name-based
// heuristics left at the fallback. Failures keep the heuristic types.
func (o *Orchestrator) stageDesignAnalysis(ctx context.Context, run *Run) (interface{}, error) {
	source := "heuristic"
	refined := 0

	if len(run.DesignExtraction) > 0 {
		raw, err := o.complete(ctx, llm.BuildAnalysisPrompt(run.DesignExtraction))
		if err == nil {
			if payload, ok := modelout.Parse(raw); ok {
				refined = mergeAnalyzedTypes(run.DesignExtraction, payload.Sections)
				source = "model"
			}
		}
		if source == "heuristic" {
			o.log.Warn("Design analysis keeping heuristic types", map[string]interface{}{
				logger.FieldRunID: run.ID,
			})
		}
	}

	o.persistField(ctx, run.ID, "designExtraction", run.DesignExtraction)
	return map[string]interface{}{"source": source, "refined": refined}, nil
}

// mergeAnalyzedTypes overwrites only fallback-typed sections, matched by id.
// The model never renames, reorders, or resizes the extraction.
func mergeAnalyzedTypes(extraction, analyzed []design.Section) int {
	byID := make(map[string]string, len(analyzed))
	for _, a := range analyzed {
		if a.ID != "" && a.Type != "" {
			byID[a.ID] = a.Type
		}
	}
	refined := 0
	for i := range extraction {
		if extraction[i].Type != "content" {
			continue
		}
		if t, ok := byID[extraction[i].ID]; ok && t != "content" {
			extraction[i].Type = t
			refined++
		}
	}
	return refined
}

// stageContentGeneration produces the final section copy. The section count
// invariant is enforced here: too many sections are truncated, too few are
// rejected wholesale and replaced by deterministic synthesis. Either way the
// run continues.
func (o *Orchestrator) stageContentGeneration(ctx context.Context, run *Run) (interface{}, error) {
	n := len(run.DesignExtraction)
	if n == 0 {
		run.GeneratedSections = []design.Section{}
		o.persistField(ctx, run.ID, "generatedSections", run.GeneratedSections)
		return map[string]interface{}{"source": "none", "sections": 0}, nil
	}

	source := "model"
	sections := o.generateFromModel(ctx, run)
	if sections == nil {
		source = "synthesized"
		sections = synthesizeSections(run.DesignExtraction, run.BusinessContext, run.Policy)
	}

	expanded := o.enforceLengthPolicy(run, sections)

	run.GeneratedSections = sections
	o.persistField(ctx, run.ID, "generatedSections", sections)
	return map[string]interface{}{
		"source":   source,
		"sections": len(sections),
		"expanded": expanded,
	}, nil
}

// generateFromModel returns nil when the model path cannot produce a
// conformant section list.
func (o *Orchestrator) generateFromModel(ctx context.Context, run *Run) []design.Section {
	n := len(run.DesignExtraction)

	raw, err := o.complete(ctx, llm.BuildGenerationPrompt(run.BusinessContext, run.DesignExtraction, run.Policy))
	if err != nil {
		o.log.Warn("Content generation model call failed", map[string]interface{}{
			logger.FieldRunID: run.ID,
			logger.FieldError: err.Error(),
		})
		return nil
	}

	payload, ok := modelout.Parse(raw)
	if !ok {
		o.log.Warn("Content generation output unparseable", map[string]interface{}{
			logger.FieldRunID: run.ID,
		})
		return nil
	}

	sections := payload.Sections
	switch {
	case len(sections) > n:
		o.log.Warn("Section count above extraction, truncating", map[string]interface{}{
			logger.FieldRunID:    run.ID,
			logger.FieldSections: len(sections),
			"expected":           n,
		})
		sections = sections[:n]
	case len(sections) < n:
		o.log.Warn("Section count below extraction, rejecting model output", map[string]interface{}{
			logger.FieldRunID:    run.ID,
			logger.FieldSections: len(sections),
			"expected":           n,
		})
		return nil
	}

	alignSections(sections, run.DesignExtraction)
	return sections
}

// alignSections pins identity fields to the extraction, positionally. The
// model owns the copy, never the structure.
func alignSections(sections, extraction []design.Section) {
	for i := range sections {
		sections[i].ID = extraction[i].ID
		sections[i].Order = extraction[i].Order
		sections[i].Box = extraction[i].Box
		if sections[i].Name == "" {
			sections[i].Name = extraction[i].Name
		}
		if sections[i].Type == "" {
			sections[i].Type = extraction[i].Type
		}
	}
}

// enforceLengthPolicy applies the validate, expand, synthesize ladder per
// section and returns how many sections needed intervention.
func (o *Orchestrator) enforceLengthPolicy(run *Run, sections []design.Section) int {
	min, max := run.Policy.Bounds()
	touched := 0

	for i := range sections {
		s := &sections[i]
		count, within := content.Validate(s, run.Policy)
		if within {
			continue
		}
		touched++

		switch {
		case count == 0:
			setContent(s, content.Synthesize(s.Type, run.BusinessContext, run.Policy))
		case count < min:
			setContent(s, content.Expand(s, run.BusinessContext, min-count))
		default:
			// expansion is append-only; over-long copy is kept
			o.log.Debug("Section over length bound", map[string]interface{}{
				logger.FieldRunID: run.ID,
				"section":         s.Name,
				"words":           count,
				"max":             max,
			})
			touched--
		}
	}
	return touched
}

func setContent(s *design.Section, text string) {
	_ = s.Comps.Set(design.KeyContent, design.String(text))
}

// synthesizeSections is the deterministic full fallback: one conformant
// section per extraction entry, copy included.
func synthesizeSections(extraction []design.Section, bc content.BusinessContext, policy content.LengthPolicy) []design.Section {
	out := make([]design.Section, len(extraction))
	for i, e := range extraction {
		s := design.Section{
			ID:    e.ID,
			Name:  e.Name,
			Type:  e.Type,
			Order: e.Order,
			Box:   e.Box,
			Comps: design.NewComponents(),
		}
		_ = s.Comps.Set(design.KeyTitle, design.String(sectionTitle(e, bc)))
		_ = s.Comps.Set(design.KeyContent, design.String(content.Synthesize(e.Type, bc, policy)))
		out[i] = s
	}
	return out
}

func sectionTitle(s design.Section, bc content.BusinessContext) string {
	switch s.Type {
	case "hero":
		return bc.Name
	case "header":
		return bc.Name
	case "features":
		return "What " + bc.Name + " offers"
	case "about":
		return "About " + bc.Name
	case "contact":
		return "Get in touch"
	case "footer":
		return bc.Name
	default:
		return titleCase(s.Type)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// heuristicPlan derives one theme per section from its inferred type.
func heuristicPlan(bc content.BusinessContext, sections []design.Section) map[string]string {
	plan := make(map[string]string, len(sections))
	for _, s := range sections {
		var theme string
		switch s.Type {
		case "header":
			theme = "Brand name and primary navigation for " + bc.Name + "."
		case "hero":
			theme = "Lead message introducing " + bc.Name + " to " + bc.Audience() + "."
		case "features":
			theme = "Key capabilities and benefits of " + bc.Name + "."
		case "testimonials":
			theme = "Social proof from existing " + bc.Audience() + "."
		case "pricing":
			theme = "Plans and pricing for " + bc.Name + "."
		case "about":
			theme = "The story behind " + bc.Name + "."
		case "contact":
			theme = "How " + bc.Audience() + " can reach " + bc.Name + "."
		case "cta":
			theme = "Direct call to action for " + bc.Name + "."
		case "footer":
			theme = "Footer links and legal details for " + bc.Name + "."
		default:
			theme = "Supporting content about " + bc.Name + "."
		}
		plan[s.Name] = theme
	}
	return plan
}
