// Package walk provides helpers for traversing the expression trees of
// a grammar AST.
package walk

import (
	"github.com/pegcomp/pegcomp/ast"
)

// Exprs walks the expression tree rooted at expr in depth-first
// pre-order, invoking fn for every node, including expr itself. If fn
// returns a non-nil error, the walk is aborted and that error is
// returned.
func Exprs(expr ast.Expr, fn func(ast.Expr) error) error {
	return ExprsEnterAndExit(expr, fn, nil)
}

// ExprsEnterAndExit walks the expression tree rooted at expr, invoking
// enter for a node before its children are visited and exit (if
// non-nil) after. If either callback returns a non-nil error, the walk
// is aborted and that error is returned.
func ExprsEnterAndExit(expr ast.Expr, enter, exit func(ast.Expr) error) error {
	if err := enter(expr); err != nil {
		return err
	}
	for _, child := range children(expr) {
		if err := ExprsEnterAndExit(child, enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		if err := exit(expr); err != nil {
			return err
		}
	}
	return nil
}

// Rule walks the expression tree of the given rule.
func Rule(rule *ast.Rule, fn func(ast.Expr) error) error {
	return Exprs(rule.Expr, fn)
}

func children(expr ast.Expr) []ast.Expr {
	switch expr := expr.(type) {
	case *ast.Choice:
		return expr.Alternatives
	case *ast.Sequence:
		return expr.Elements
	case *ast.Labeled:
		return []ast.Expr{expr.Expr}
	case *ast.SimpleAnd:
		return []ast.Expr{expr.Expr}
	case *ast.SimpleNot:
		return []ast.Expr{expr.Expr}
	case *ast.Optional:
		return []ast.Expr{expr.Expr}
	case *ast.ZeroOrMore:
		return []ast.Expr{expr.Expr}
	case *ast.OneOrMore:
		return []ast.Expr{expr.Expr}
	case *ast.Action:
		return []ast.Expr{expr.Expr}
	case *ast.SemanticAnd, *ast.SemanticNot, *ast.RuleRef, *ast.Literal, *ast.Any, *ast.Class:
		return nil
	default:
		panic(&ast.UnknownNodeKindError{Node: expr})
	}
}
