// Package pegcomp provides the entry point for a compiler that turns
// parsing expression grammars into packrat parsers.
//
// The compilation process involves three steps for each grammar file:
//  1. Parsing the grammar source into an AST (abstract syntax tree).
//  2. Validating the AST (checking rule references and reachability).
//  3. Emitting the source of a recursive-descent packrat parser for
//     the grammar.
//
// The generated parser is a self-contained JavaScript program: it
// memoizes rule results for linear-time parsing, reports syntax errors
// with line and column information and an aggregated set of expected
// inputs, and exposes a parse(input, startRule) entry point.
//
// Use a Compiler to compile one or more grammars, with a Resolver to
// supply their sources:
//
//	c := pegcomp.Compiler{
//		Resolver: &pegcomp.SourceResolver{},
//	}
//	results, err := c.Compile(ctx, "arithmetic.peg")
//
// The lower-level pieces are available separately: the parser package
// turns grammar source into an AST, and the codegen package turns an
// AST into parser source.
package pegcomp
