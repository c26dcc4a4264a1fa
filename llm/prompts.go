package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
)

const (
	plannerSystem = "You are a landing-page content strategist. Respond with valid JSON only, no markdown fences and no commentary."

	analystSystem = "You are a design-system analyst. Respond with valid JSON only, no markdown fences and no commentary."

	writerSystem = "You are a landing-page copywriter. Respond with a JSON array of section objects only, no markdown fences and no commentary."
)

// BuildPlanningPrompt asks the model to sketch per-section content themes
// before any copy is written.
func BuildPlanningPrompt(bc content.BusinessContext, sections []design.Section) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan landing page content for %s.\n", bc.Name)
	fmt.Fprintf(&b, "Business overview: %s\n", bc.Overview)
	fmt.Fprintf(&b, "Target audience: %s\n", bc.Audience())
	if bc.Tone != "" {
		fmt.Fprintf(&b, "Tone of voice: %s\n", bc.Tone)
	}
	b.WriteString("\nThe page has the following sections, in reading order:\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "%d. %s (type: %s)\n", s.Order, s.Name, s.Type)
	}
	b.WriteString("\nReturn a JSON object mapping each section name to a one-sentence content theme.")
	return Prompt{System: plannerSystem, User: b.String()}
}

// BuildAnalysisPrompt asks the model to classify sections the heuristics
// could not type and to flag layout anomalies.
func BuildAnalysisPrompt(sections []design.Section) Prompt {
	payload, _ := json.Marshal(sections)
	var b strings.Builder
	b.WriteString("Review these landing page sections extracted from a design file:\n")
	b.Write(payload)
	b.WriteString("\n\nReturn a JSON object with a \"sections\" array where each entry has the section id and a \"type\" field chosen from: header, hero, features, about, testimonials, pricing, contact, footer, cta, content.")
	return Prompt{System: analystSystem, User: b.String()}
}

// BuildGenerationPrompt asks the model for final section copy. The exact
// section count is stated twice because models often drop or merge sections.
func BuildGenerationPrompt(bc content.BusinessContext, sections []design.Section, policy content.LengthPolicy) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Write landing page content for %s.\n", bc.Name)
	fmt.Fprintf(&b, "Business overview: %s\n", bc.Overview)
	fmt.Fprintf(&b, "Target audience: %s\n", bc.Audience())
	if bc.Tone != "" {
		fmt.Fprintf(&b, "Tone of voice: %s\n", bc.Tone)
	}
	if bc.URL != "" {
		fmt.Fprintf(&b, "Website: %s\n", bc.URL)
	}
	min, max := policy.Bounds()
	fmt.Fprintf(&b, "Each section's main content must be between %d and %d words.\n", min, max)
	fmt.Fprintf(&b, "\nThe page has exactly %d sections. Produce exactly %d section objects, one per section, in this order:\n", len(sections), len(sections))
	for _, s := range sections {
		fmt.Fprintf(&b, "%d. %q (type: %s, id: %s)\n", s.Order, s.Name, s.Type, s.ID)
	}
	b.WriteString("\nReturn a JSON array. Each element must have \"id\", \"name\", \"type\", \"order\" matching the section above, and a \"components\" object using only these keys: title, subtitle, content, items, messages, ctas, buttons.\n")
	fmt.Fprintf(&b, "Do not add, drop, or merge sections: the array length must be exactly %d.", len(sections))
	return Prompt{System: writerSystem, User: b.String()}
}
