// Package llm abstracts the generative-model collaborator: prompt in, raw
// text out. The model gives no structured-output guarantee; recovering
// structure from its responses is the modelout package's job.
package llm
