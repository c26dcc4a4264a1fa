// Package design models the machine-extracted design tree and segments it
// into semantically meaningful sections.
//
// The tree is supplied by an upstream extraction step and is read-only. The
// Segmenter walks it to a bounded depth, qualifies container nodes as main
// sections using size and naming heuristics, extracts their concrete content
// elements (text runs, buttons, images, form fields), and infers a section
// type from an ordered keyword rule table. Design tokens (colors, type
// families, spacing) are collected separately as a flat informational list.
package design
