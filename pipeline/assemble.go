package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/kbukum/pageforge/content"
	"github.com/kbukum/pageforge/design"
	apperrors "github.com/kbukum/pageforge/errors"
	"github.com/kbukum/pageforge/logger"
)

// stagePageAssembly reshapes generated sections into the persisted page
// document: auxiliary assets from design tokens plus the quality report.
// When generation left nothing usable it falls back to full synthesis.
func (o *Orchestrator) stagePageAssembly(ctx context.Context, run *Run) (interface{}, error) {
	if len(run.GeneratedSections) == 0 && len(run.DesignExtraction) > 0 {
		o.log.Warn("Assembling from synthesized sections", map[string]interface{}{
			logger.FieldRunID: run.ID,
		})
		run.GeneratedSections = synthesizeSections(run.DesignExtraction, run.BusinessContext, run.Policy)
		o.persistField(ctx, run.ID, "generatedSections", run.GeneratedSections)
	}

	run.Assets = buildAssets(run.Tokens)
	run.Quality = scoreQuality(run)

	o.persistField(ctx, run.ID, "assets", run.Assets)
	o.persistField(ctx, run.ID, "qualityReport", run.Quality)

	return map[string]interface{}{
		"score":    run.Quality.Score,
		"sections": len(run.GeneratedSections),
	}, nil
}

// stagePreview renders the assembled sections to an HTML fragment. It reads
// run state and computes; it never regenerates content.
func (o *Orchestrator) stagePreview(ctx context.Context, run *Run) (interface{}, error) {
	html, err := renderPreview(run)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	run.Preview = &PreviewArtifact{
		Ref:        "runs/" + run.ID + "/preview",
		HTML:       html,
		SizeBytes:  len(html),
		RenderedAt: run.UpdatedAt,
	}
	o.persistField(ctx, run.ID, "preview", run.Preview)

	return map[string]interface{}{"sizeBytes": run.Preview.SizeBytes}, nil
}

// stageDownload estimates the exportable bundle. Side-effect free.
func (o *Orchestrator) stageDownload(ctx context.Context, run *Run) (interface{}, error) {
	size := 0
	files := 1
	if run.Preview != nil {
		size += run.Preview.SizeBytes
	}
	if run.Assets != nil {
		if run.Assets.Styling != "" {
			size += len(run.Assets.Styling)
			files++
		}
		if run.Assets.Script != "" {
			size += len(run.Assets.Script)
			files++
		}
	}

	run.Download = &DownloadEstimate{
		Format:    "zip",
		SizeBytes: size,
		Files:     files,
	}
	o.persistField(ctx, run.ID, "download", run.Download)

	return map[string]interface{}{"format": "zip", "sizeBytes": size}, nil
}

var previewMarkdown = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

// renderPreview builds a markdown view of the page and converts it to HTML.
func renderPreview(run *Run) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", run.BusinessContext.Name)

	for i := range run.GeneratedSections {
		s := &run.GeneratedSections[i]
		if title, ok := s.Comps.Get(design.KeyTitle); ok && !title.IsEmpty() {
			fmt.Fprintf(&md, "## %s\n\n", title.Text())
		} else {
			fmt.Fprintf(&md, "## %s\n\n", s.Name)
		}
		if subtitle, ok := s.Comps.Get(design.KeySubtitle); ok && !subtitle.IsEmpty() {
			fmt.Fprintf(&md, "*%s*\n\n", subtitle.Text())
		}
		if body := content.SectionText(s); body != "" {
			md.WriteString(body)
			md.WriteString("\n\n")
		}
		if items, ok := s.Comps.Get(design.KeyItems); ok {
			for _, item := range items.List() {
				fmt.Fprintf(&md, "- %s\n", item)
			}
			md.WriteString("\n")
		}
	}

	var out bytes.Buffer
	if err := previewMarkdown.Convert([]byte(md.String()), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// buildAssets derives a styling sheet and a small script from the design
// tokens so the exported page reflects the source design.
func buildAssets(tokens []design.Token) *AuxiliaryAssets {
	var colors, fonts []string
	var spacings []string
	for _, t := range tokens {
		switch t.Kind {
		case design.TokenColor:
			colors = append(colors, t.Value)
		case design.TokenFontFamily:
			fonts = append(fonts, t.Value)
		case design.TokenSpacing:
			spacings = append(spacings, t.Value)
		}
	}

	script := "document.querySelectorAll('a[href^=\"#\"]').forEach(function (a) {\n" +
		"  a.addEventListener('click', function (e) {\n" +
		"    var target = document.querySelector(a.getAttribute('href'));\n" +
		"    if (target) { e.preventDefault(); target.scrollIntoView({ behavior: 'smooth' }); }\n" +
		"  });\n" +
		"});\n"

	if len(tokens) == 0 {
		return &AuxiliaryAssets{Script: script}
	}

	var css strings.Builder
	css.WriteString(":root {\n")
	for i, c := range colors {
		fmt.Fprintf(&css, "  --color-%d: %s;\n", i+1, c)
	}
	for i, sp := range spacings {
		fmt.Fprintf(&css, "  --spacing-%d: %s;\n", i+1, sp)
	}
	css.WriteString("}\n")
	if len(fonts) > 0 {
		fmt.Fprintf(&css, "body { font-family: %s, sans-serif; }\n", strings.Join(fonts, ", "))
	}
	if len(colors) > 0 {
		fmt.Fprintf(&css, "a, .cta { color: %s; }\n", colors[0])
	}

	return &AuxiliaryAssets{
		Styling: css.String(),
		Script:  script,
	}
}
