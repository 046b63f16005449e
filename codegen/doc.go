// Package codegen emits the source of a packrat parser for a grammar
// AST.
//
// The entry point is Generate, which walks the AST and produces the
// complete JavaScript source of a recursive-descent parser as a single
// string. Each PEG operator is translated into an inline recognizer
// fragment; every fragment obeys the same contract: on success it
// advances the parse position past the consumed input and assigns a
// non-null value to its result variable, and on failure it leaves the
// position where it was (restoring a saved value if it had moved) and
// assigns null.
//
// Emission is deterministic: the rule table and the parse functions
// are ordered lexicographically by rule name, and the allocator that
// hands out fresh local identifiers is reset at the start of every
// rule, so an edit to one rule never changes the identifiers emitted
// for another.
package codegen
