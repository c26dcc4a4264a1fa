// Package pipeline runs the landing-page content synthesis sequence: it
// validates the business context, plans and generates section copy through
// the model collaborator, enforces the section-count invariant, assembles
// the page document, and records every stage durably.
//
// A run moves through a fixed stage order with a side transition to Failed.
// Model and parse failures degrade to deterministic heuristics wherever a
// fallback exists; only validation errors and exhausted retries outside the
// generation stages fail a run.
package pipeline
