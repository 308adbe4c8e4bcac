// Package logging provides a unified logging interface for the wideint
// tooling. It abstracts the underlying logging implementation, allowing
// consistent logging across the evaluator, the verification runner and the
// HTTP server while supporting multiple backends.
package logging
