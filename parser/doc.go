// Package parser contains the lexer and parser for the grammar
// language: parsing expression grammars with labels, predicates,
// semantic actions, and an optional initializer block, in the classic
// "name = expression" notation.
//
// The parser produces an AST (see the ast package) that the code
// generator consumes. Parsing and validation are separate steps: Parse
// builds the tree and reports only syntax problems, while Validate
// checks cross-rule properties such as whether every referenced rule
// is defined.
package parser
