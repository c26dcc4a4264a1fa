// Package server exposes the synthesis pipeline over HTTP: run creation,
// run inspection, single-stage replay, and a segment-only diagnostic
// endpoint. The server is Gin-backed with h2c so HTTP/2 clients work
// without TLS.
package server
