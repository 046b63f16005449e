// Package ast defines types for modeling the AST (Abstract Syntax
// Tree) of a parsing expression grammar.
//
// A grammar is modeled as a *Grammar node, which holds an optional
// initializer (user code run once before a parse begins), the name of
// the default start rule, and the set of rules. Each rule's right-hand
// side is a tree of expression nodes implementing the Expr interface,
// one concrete type per PEG operator: ordered choice, sequence, labels,
// syntactic and semantic predicates, repetition, actions, rule
// references, literals, the any-character matcher, and character
// classes.
//
// Nodes record the position in the grammar source where they begin, so
// that tooling (such as the parser and validator in the parser package)
// can report errors against the original source.
package ast
