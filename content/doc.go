// Package content owns the business-context record, the content length
// policy, and the deterministic validation and expansion of generated
// section text.
//
// Expansion never calls the model: when a section under-generates, filler
// grounded in the business context is appended until the policy minimum is
// met. This keeps acceptance deterministic and avoids a second model
// round-trip for every length violation.
package content
