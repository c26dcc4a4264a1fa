package design

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kbukum/pageforge/logger"
)

// Segmentation thresholds in design units.
const (
	maxSegmentDepth  = 3
	minSectionWidth  = 100
	minSectionHeight = 50
	rowTolerance     = 50
)

// sectionKeywords is the vocabulary that marks a node name as meaningful.
var sectionKeywords = []string{
	"header", "hero", "footer", "nav", "navigation", "pricing", "testimonial",
	"feature", "benefit", "cta", "about", "story", "contact", "gallery",
	"form", "list", "grid", "banner", "section", "content", "team", "faq",
	"service", "product",
}

// genericNamePattern matches auto-generated layer names such as "Group 3".
var genericNamePattern = regexp.MustCompile(`(?i)^(group|frame|rectangle|ellipse|vector|layer|component|instance|shape|container)\s*\d*$`)

// typeRule maps name keywords to a section type tag. Rules are evaluated
// top-to-bottom; the first match wins.
type typeRule struct {
	keywords []string
	tag      string
}

var typeRules = []typeRule{
	{[]string{"header", "nav"}, "header"},
	{[]string{"hero", "banner"}, "hero"},
	{[]string{"feature", "benefit"}, "features"},
	{[]string{"testimonial", "review"}, "testimonials"},
	{[]string{"contact", "form"}, "contact"},
	{[]string{"about", "story"}, "about"},
	{[]string{"cta", "button"}, "cta"},
	{[]string{"footer"}, "footer"},
	{[]string{"pricing", "plan"}, "pricing"},
}

const typeFallback = "content"

// InferSectionType maps a node name to a section type tag via the ordered
// rule table.
func InferSectionType(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.tag
			}
		}
	}
	return typeFallback
}

// Segmenter identifies main sections in a design tree.
type Segmenter struct {
	log *logger.Logger
}

// NewSegmenter creates a Segmenter. A nil logger falls back to the default.
func NewSegmenter(log *logger.Logger) *Segmenter {
	if log == nil {
		log = logger.NewDefault("pageforge")
	}
	return &Segmenter{log: log.WithComponent("segmenter")}
}

// Segment walks the tree and returns the main sections in reading order
// (top-to-bottom, ties within a row broken left-to-right). It returns an
// empty slice when no node qualifies; callers must not fabricate sections
// from an empty design. Malformed or nil nodes are skipped, never fatal.
func (s *Segmenter) Segment(root *Node) []Section {
	if root == nil {
		return nil
	}

	var candidates []*Node
	for _, child := range root.Children {
		s.collectCandidates(child, 1, &candidates)
	}

	sortReadingOrder(candidates)

	sections := make([]Section, 0, len(candidates))
	for i, n := range candidates {
		id := n.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		sections = append(sections, Section{
			ID:       id,
			Name:     n.Name,
			Type:     InferSectionType(n.Name),
			Order:    i + 1,
			Box:      n.Box,
			Elements: extractElements(n),
		})
	}

	s.log.Info("design segmented", logger.Fields(logger.FieldSections, len(sections)))
	return sections
}

// collectCandidates gathers qualifying nodes depth-first, bounded to
// maxSegmentDepth levels below the root container. A node that qualifies is
// not descended into: its subtree belongs to the section as elements.
func (s *Segmenter) collectCandidates(n *Node, depth int, out *[]*Node) {
	if n == nil || depth > maxSegmentDepth {
		return
	}
	if s.qualifies(n) {
		*out = append(*out, n)
		return
	}
	for _, child := range n.Children {
		s.collectCandidates(child, depth+1, out)
	}
}

// qualifies applies the main-section heuristic: container kind, minimum
// size, meaningful name, at least one child.
func (s *Segmenter) qualifies(n *Node) bool {
	if n == nil || !n.IsContainer() {
		return false
	}
	switch n.Kind {
	case KindFrame, KindComponent, KindInstance:
	default:
		return false
	}
	if n.Box == nil || n.Box.Width < minSectionWidth || n.Box.Height < minSectionHeight {
		return false
	}
	if len(n.Children) == 0 {
		return false
	}
	return meaningfulName(n.Name)
}

// meaningfulName accepts names that contain a recognized section keyword or
// that do not look auto-generated.
func meaningfulName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return !genericNamePattern.MatchString(trimmed)
}

// sortReadingOrder sorts candidates by vertical position; nodes within
// rowTolerance of each other vertically are ordered by horizontal position.
func sortReadingOrder(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Box, nodes[j].Box
		dy := a.Y - b.Y
		if dy < rowTolerance && dy > -rowTolerance {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
}
