package parser

import (
	"fmt"
	"sort"

	"github.com/pegcomp/pegcomp/ast"
	"github.com/pegcomp/pegcomp/reporter"
	"github.com/pegcomp/pegcomp/walk"
)

// Validate checks a parsed grammar for semantic problems that the
// parser itself does not catch: references to rules that do not exist
// and a missing start rule. Rules that can never be reached from the
// start rule are reported as warnings. Problems are reported to the
// given handler; rules are visited in name order so that diagnostics
// come out in a deterministic order.
func Validate(g *ast.Grammar, handler *reporter.Handler) error {
	if len(g.Rules) == 0 {
		if err := handler.HandleErrorf(g.Start(), "grammar has no rules"); err != nil {
			return err
		}
		return handler.Error()
	}
	if _, ok := g.Rules[g.StartRule]; !ok {
		if err := handler.HandleErrorf(g.Start(), "start rule %q is not defined", g.StartRule); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(g.Rules))
	for name := range g.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := g.Rules[name]
		err := walk.Rule(rule, func(expr ast.Expr) error {
			ref, ok := expr.(*ast.RuleRef)
			if !ok {
				return nil
			}
			if _, defined := g.Rules[ref.Name]; !defined {
				return handler.HandleErrorf(ref.Start(), "referenced rule %q does not exist", ref.Name)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if err := handler.Error(); err != nil {
		return err
	}

	for _, name := range unreachableRules(g, names) {
		rule := g.Rules[name]
		handler.HandleWarning(rule.Start(), fmt.Errorf("rule %q is never used", name))
	}

	return nil
}

// unreachableRules returns the names of rules that cannot be reached
// from the grammar's start rule, in name order. It must only run on a
// grammar whose rule references all resolve.
func unreachableRules(g *ast.Grammar, names []string) []string {
	reached := map[string]bool{g.StartRule: true}
	queue := []string{g.StartRule}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		_ = walk.Rule(g.Rules[name], func(expr ast.Expr) error {
			if ref, ok := expr.(*ast.RuleRef); ok && !reached[ref.Name] {
				reached[ref.Name] = true
				queue = append(queue, ref.Name)
			}
			return nil
		})
	}

	// names is already sorted, so the result is too
	var unreachable []string
	for _, name := range names {
		if !reached[name] {
			unreachable = append(unreachable, name)
		}
	}
	return unreachable
}
