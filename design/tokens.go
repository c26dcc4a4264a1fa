package design

import (
	"fmt"
	"math"
	"sort"
)

// TokenKind classifies a design token.
type TokenKind string

// The token kinds extracted from a design tree.
const (
	TokenColor      TokenKind = "color"
	TokenFontFamily TokenKind = "fontFamily"
	TokenSpacing    TokenKind = "spacing"
)

// Token is one deduplicated design token. Tokens are informational only and
// are not part of the section-count invariant.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Value string    `json:"value"`
}

// Tokens extracts a flat deduplicated token list from the whole tree:
// solid fill colors as hex, text font families, and approximate horizontal
// spacing steps between sibling nodes.
func (s *Segmenter) Tokens(root *Node) []Token {
	if root == nil {
		return nil
	}

	seen := make(map[Token]bool)
	var tokens []Token
	add := func(t Token) {
		if t.Value == "" || seen[t] {
			return
		}
		seen[t] = true
		tokens = append(tokens, t)
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		for _, c := range n.solidFillColors() {
			add(Token{Kind: TokenColor, Value: hexFromNormalizedRGB(c)})
		}
		if n.Kind == KindText && n.FontFamily != "" {
			add(Token{Kind: TokenFontFamily, Value: n.FontFamily})
		}
		for _, gap := range siblingGaps(n.Children) {
			add(Token{Kind: TokenSpacing, Value: fmt.Sprintf("%dpx", gap)})
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)

	return tokens
}

// hexFromNormalizedRGB converts {r,g,b} components in [0,1] to #rrggbb.
func hexFromNormalizedRGB(c map[string]any) string {
	channel := func(key string) (int, bool) {
		f, ok := c[key].(float64)
		if !ok || f < 0 || f > 1 {
			return 0, false
		}
		return int(math.Round(f * 255)), true
	}
	r, okR := channel("r")
	g, okG := channel("g")
	b, okB := channel("b")
	if !okR || !okG || !okB {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// siblingGaps returns the rounded horizontal gaps between siblings laid out
// on the same row, as approximate spacing steps.
func siblingGaps(children []*Node) []int {
	var xs []float64
	for _, c := range children {
		if c != nil && c.Box != nil {
			xs = append(xs, c.Box.X)
		}
	}
	if len(xs) < 2 {
		return nil
	}
	sort.Float64s(xs)

	var gaps []int
	for i := 1; i < len(xs); i++ {
		gap := int(math.Round(xs[i] - xs[i-1]))
		if gap >= 4 && gap <= 200 {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}
