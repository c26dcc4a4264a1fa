package design

import "strings"

// Kind classifies a design tree node.
type Kind string

// The closed set of node kinds. Unrecognized kinds normalize to KindOther.
const (
	KindFrame     Kind = "frame"
	KindGroup     Kind = "group"
	KindComponent Kind = "component"
	KindInstance  Kind = "instance"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindOther     Kind = "other"
)

// NormalizeKind maps free-form kind strings onto the closed Kind set.
func NormalizeKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFrame:
		return KindFrame
	case KindGroup:
		return KindGroup
	case KindComponent:
		return KindComponent
	case KindInstance:
		return KindInstance
	case KindText:
		return KindText
	case KindImage:
		return KindImage
	default:
		return KindOther
	}
}

// Rect is an axis-aligned bounding box in design-space units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is one node of the design tree. Created once per ingestion request,
// read-only afterwards. A parent owns its children exclusively.
type Node struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name"`
	Box      *Rect   `json:"boundingBox,omitempty"`
	Text     string  `json:"text,omitempty"`
	Children []*Node `json:"children,omitempty"`

	// Style holds fills, strokes, effects, corner radius, and layout mode
	// as opaque key-value data from the extraction step.
	Style map[string]any `json:"style,omitempty"`

	// Typography attributes, set on text leaves only.
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	TextColor  string  `json:"textColor,omitempty"`
}

// IsContainer reports whether the node can hold section content.
func (n *Node) IsContainer() bool {
	switch n.Kind {
	case KindFrame, KindGroup, KindComponent, KindInstance:
		return true
	}
	return false
}

// fills returns the node's fill entries from the opaque style data.
func (n *Node) fills() []map[string]any {
	if n.Style == nil {
		return nil
	}
	raw, ok := n.Style["fills"].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// hasStyledFill reports whether the node carries a visible solid fill or a
// stroke, which is what distinguishes a button face from an invisible group.
func (n *Node) hasStyledFill() bool {
	for _, f := range n.fills() {
		if t, _ := f["type"].(string); strings.EqualFold(t, "solid") {
			return true
		}
	}
	if n.Style != nil {
		if strokes, ok := n.Style["strokes"].([]any); ok && len(strokes) > 0 {
			return true
		}
	}
	return false
}

// hasImageFill reports whether any fill references an image.
func (n *Node) hasImageFill() bool {
	for _, f := range n.fills() {
		if t, _ := f["type"].(string); strings.EqualFold(t, "image") {
			return true
		}
		if ref, _ := f["imageRef"].(string); ref != "" {
			return true
		}
	}
	return false
}

// solidFillColors returns the normalized RGB components of solid fills.
func (n *Node) solidFillColors() []map[string]any {
	var colors []map[string]any
	for _, f := range n.fills() {
		if t, _ := f["type"].(string); !strings.EqualFold(t, "solid") {
			continue
		}
		if c, ok := f["color"].(map[string]any); ok {
			colors = append(colors, c)
		}
	}
	return colors
}
