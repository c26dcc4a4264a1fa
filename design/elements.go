package design

import "strings"

// Elements holds the concrete content found inside a section during
// segmentation. They ground the generation prompt in what the design
// actually shows.
type Elements struct {
	Texts   []TextRun   `json:"texts,omitempty"`
	Buttons []Button    `json:"buttons,omitempty"`
	Images  []Image     `json:"images,omitempty"`
	Forms   []FormField `json:"forms,omitempty"`
}

// IsEmpty reports whether no elements were extracted.
func (e *Elements) IsEmpty() bool {
	if e == nil {
		return true
	}
	return len(e.Texts) == 0 && len(e.Buttons) == 0 && len(e.Images) == 0 && len(e.Forms) == 0
}

// TextRun is a non-empty text leaf with its typography.
type TextRun struct {
	Content    string  `json:"content"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	Box        *Rect   `json:"boundingBox,omitempty"`
}

// Button is a container whose box and styling resemble a clickable button.
type Button struct {
	Label string `json:"label"`
	Box   *Rect  `json:"boundingBox,omitempty"`
}

// Image is a node carrying an image fill or an image-implying name.
type Image struct {
	Name string `json:"name"`
	Box  *Rect  `json:"boundingBox,omitempty"`
}

// FormField is a small-height node whose name implies an input field.
type FormField struct {
	Name string `json:"name"`
	Box  *Rect  `json:"boundingBox,omitempty"`
}

// Button geometry thresholds in design units.
const (
	buttonMinWidth  = 60
	buttonMaxWidth  = 400
	buttonMinHeight = 25
	buttonMaxHeight = 80
	formMaxHeight   = 60
)

var imageNameHints = []string{"image", "img", "icon", "photo", "picture", "logo", "illustration", "avatar"}

var formNameHints = []string{"field", "input", "search", "email", "subscribe", "textarea", "select", "checkbox"}

// extractElements walks the full subtree of a section node and collects its
// content elements. Nil nodes are skipped, never fatal.
func extractElements(n *Node) *Elements {
	els := &Elements{}
	for _, child := range n.Children {
		collectElements(child, els)
	}
	if els.IsEmpty() {
		return nil
	}
	return els
}

func collectElements(n *Node, els *Elements) {
	if n == nil {
		return
	}

	switch {
	case n.Kind == KindText:
		if content := strings.TrimSpace(n.Text); content != "" {
			els.Texts = append(els.Texts, TextRun{
				Content:    content,
				FontSize:   n.FontSize,
				FontFamily: n.FontFamily,
				FontWeight: n.FontWeight,
				Color:      n.TextColor,
				Box:        n.Box,
			})
		}
		return

	case looksLikeImage(n):
		els.Images = append(els.Images, Image{Name: n.Name, Box: n.Box})
		return

	case looksLikeButton(n):
		els.Buttons = append(els.Buttons, Button{Label: firstTextRun(n), Box: n.Box})
		// Button internals (its label) are already captured; do not
		// re-extract them as free-standing text runs.
		return

	case looksLikeFormField(n):
		els.Forms = append(els.Forms, FormField{Name: n.Name, Box: n.Box})
		return
	}

	for _, child := range n.Children {
		collectElements(child, els)
	}
}

func looksLikeButton(n *Node) bool {
	if !n.IsContainer() || n.Box == nil {
		return false
	}
	if n.Box.Width < buttonMinWidth || n.Box.Width > buttonMaxWidth {
		return false
	}
	if n.Box.Height < buttonMinHeight || n.Box.Height > buttonMaxHeight {
		return false
	}
	if !n.hasStyledFill() {
		return false
	}
	return firstTextRun(n) != ""
}

func looksLikeImage(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == KindImage || n.hasImageFill() {
		return true
	}
	return nameContainsAny(n.Name, imageNameHints)
}

func looksLikeFormField(n *Node) bool {
	if n == nil || n.Box == nil || n.Box.Height > formMaxHeight {
		return false
	}
	return nameContainsAny(n.Name, formNameHints)
}

// firstTextRun returns the first non-empty text content in the subtree.
func firstTextRun(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return strings.TrimSpace(n.Text)
	}
	for _, child := range n.Children {
		if s := firstTextRun(child); s != "" {
			return s
		}
	}
	return ""
}

func nameContainsAny(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
