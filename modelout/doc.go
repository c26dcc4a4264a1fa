// Package modelout recovers structured payloads from the generative model's
// free-form text output.
//
// Model output is untrusted: it may be wrapped in markdown fences, deliver a
// bare array where an object was asked for, or delimit multi-line string
// fields with backticks, which are not valid JSON. Parse tries a fixed
// ladder of recovery strategies and reports ok=false only when none
// succeeds; callers then fall back to deterministic synthesis instead of
// surfacing an error.
package modelout
