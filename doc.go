// Package formula implements the front end of a spreadsheet cell formula
// language: a lexer, a precedence parser producing an AST, and a tree-walking
// evaluator.
//
// Formulas look like what you would type into a cell after the "=":
// "1+2*3", "\"abc\" & 50%", "A1:B2", "SUM(Sheet2!A1:A5)". The evaluator itself
// knows only literals and operators. References and calls are parsed into
// the AST for collaborators to consume, and evaluating them fails with a
// *NotImplementedError unless a Resolver or Func is installed with an Option.
// Ranges are always a *NotImplementedError. Bare names are the one node kind
// with their own error: a name not defined with SetVar or Interpreter.Set is
// a *NameError.
//
// An Interpreter reuses its scanning and parsing buffers between calls, so it
// is cheap to compute many formulas with one, but it must not be shared
// between goroutines. The package-level Compute uses a fresh Interpreter each
// time.
//
package formula
