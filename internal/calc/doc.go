// Package calc maps operation names to the 256-bit engine. A Registry lists
// the operations with their arity and signedness; Evaluate parses textual
// operands and dispatches through the generic int256.Integer contract, so
// every front end (command line, REPL, TUI, HTTP, batch files) shares one
// evaluation path.
package calc
