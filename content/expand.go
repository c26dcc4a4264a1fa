package content

import (
	"fmt"
	"strings"

	"github.com/kbukum/pageforge/design"
)

// fillerTemplates holds the deterministic expansion sentences per section
// type. %[1]s is the business name, %[2]s the audience, %[3]s the overview.
var fillerTemplates = map[string][]string{
	"hero": {
		"%[1]s helps %[2]s get results from day one.",
		"Built around a simple idea: %[3]s.",
		"Join the growing number of %[2]s who rely on %[1]s every day.",
		"Everything you need to get started is one click away.",
	},
	"features": {
		"Every feature in %[1]s is designed with %[2]s in mind.",
		"From the first interaction, %[1]s removes the friction that slows %[2]s down.",
		"Each capability works on its own and gets better when combined.",
		"No configuration marathon, no steep learning curve, just results.",
	},
	"about": {
		"%[1]s started with a clear purpose: %[3]s.",
		"The team behind %[1]s has spent years listening to %[2]s.",
		"That experience shapes every decision the company makes.",
		"Today %[1]s keeps the same focus it had on day one.",
	},
	"contact": {
		"The %[1]s team reads every message from %[2]s personally.",
		"Questions about %[1]s are usually answered within one business day.",
		"Reach out and find out what %[1]s can do for you.",
		"No bots, no scripts, just people who know the product.",
	},
}

// genericFiller is rotated for section types without a dedicated template.
var genericFiller = []string{
	"%[1]s exists for one reason: %[3]s.",
	"That focus shows in everything %[1]s delivers to %[2]s.",
	"Thousands of details add up to an experience that simply works.",
	"Discover what %[1]s can do for %[2]s today.",
}

// Expand deterministically appends business-grounded filler to the
// section's measured text until at least needed additional words have been
// added. Model-authored content is never truncated or reordered; the
// original text is always a prefix of the result.
func Expand(s *design.Section, bc BusinessContext, needed int) string {
	base := SectionText(s)
	if needed <= 0 {
		return base
	}

	filler := fillerWords(s.Type, bc, needed)
	if base == "" {
		return filler
	}
	return base + " " + filler
}

// Synthesize produces last-resort content for a section that has none at
// all, keyed by section type and grounded in the business context. The
// result is word-count-conformant by construction: at least the policy
// minimum and never above the maximum.
func Synthesize(sectionType string, bc BusinessContext, policy LengthPolicy) string {
	min, _ := policy.Bounds()
	return fillerWords(sectionType, bc, min)
}

// fillerWords builds at least n words of filler, cut at the word boundary
// so narrow custom bands cannot be overshot.
func fillerWords(sectionType string, bc BusinessContext, n int) string {
	templates, ok := fillerTemplates[sectionType]
	if !ok {
		templates = genericFiller
	}

	var words []string
	for i := 0; len(words) < n; i++ {
		sentence := fmt.Sprintf(templates[i%len(templates)], bc.Name, bc.Audience(), strings.TrimRight(bc.Overview, "."))
		words = append(words, strings.Fields(sentence)...)
	}
	if len(words) > n {
		words = words[:n]
		last := words[n-1]
		if !strings.HasSuffix(last, ".") {
			words[n-1] = strings.TrimRight(last, ",;:") + "."
		}
	}
	return strings.Join(words, " ")
}
