package pipeline

import (
	"strings"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
)

// Score weights. They sum to 100.
const (
	weightSectionsPresent = 30
	weightTypeCoverage    = 20
	weightAuxiliaryAssets = 25
	weightMetadata        = 15
	weightBrandMention    = 10
)

// canonicalTypes are the section types a complete landing page is expected
// to cover.
var canonicalTypes = []string{"header", "hero", "features", "cta", "footer"}

// scoreQuality rates the assembled page out of 100.
func scoreQuality(run *Run) *QualityReport {
	report := &QualityReport{}
	b := &report.Breakdown

	b.SectionsPresent = scoreSectionsPresent(run)
	b.TypeCoverage = scoreTypeCoverage(run.GeneratedSections)
	b.AuxiliaryAssets = scoreAssets(run.Assets)
	b.Metadata = scoreMetadata(run)
	b.BrandMention = scoreBrandMention(run)

	report.Score = b.SectionsPresent + b.TypeCoverage + b.AuxiliaryAssets + b.Metadata + b.BrandMention

	if len(run.GeneratedSections) == 0 {
		report.Notes = append(report.Notes, "no sections were generated")
	}
	for _, t := range canonicalTypes {
		if !hasType(run.GeneratedSections, t) {
			report.Notes = append(report.Notes, "missing "+t+" section")
		}
	}
	return report
}

// scoreSectionsPresent is proportional to how many extraction sections
// ended up with non-empty generated copy.
func scoreSectionsPresent(run *Run) int {
	n := len(run.DesignExtraction)
	if n == 0 {
		n = len(run.GeneratedSections)
	}
	if n == 0 {
		return 0
	}
	filled := 0
	for i := range run.GeneratedSections {
		if content.SectionText(&run.GeneratedSections[i]) != "" {
			filled++
		}
	}
	return weightSectionsPresent * filled / n
}

func scoreTypeCoverage(sections []design.Section) int {
	per := weightTypeCoverage / len(canonicalTypes)
	score := 0
	for _, t := range canonicalTypes {
		if hasType(sections, t) {
			score += per
		}
	}
	return score
}

func hasType(sections []design.Section, t string) bool {
	for i := range sections {
		if sections[i].Type == t {
			return true
		}
	}
	return false
}

func scoreAssets(assets *AuxiliaryAssets) int {
	if assets == nil {
		return 0
	}
	score := 0
	if assets.Styling != "" {
		score += 15
	}
	if assets.Script != "" {
		score += 10
	}
	return score
}

// scoreMetadata rewards a content plan and extracted design tokens.
func scoreMetadata(run *Run) int {
	score := 0
	if len(run.ContentPlan) > 0 {
		score += 8
	}
	if len(run.Tokens) > 0 {
		score += 7
	}
	return score
}

func scoreBrandMention(run *Run) int {
	name := strings.ToLower(run.BusinessContext.Name)
	if name == "" {
		return 0
	}
	for i := range run.GeneratedSections {
		if strings.Contains(strings.ToLower(content.SectionText(&run.GeneratedSections[i])), name) {
			return weightBrandMention
		}
	}
	return 0
}
