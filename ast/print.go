package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Print renders a node as a compact s-expression, mainly for tests and
// debugging. Rules of a grammar are printed in name order.
func Print(n Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Grammar:
		b.WriteString("(grammar")
		if n.Initializer != nil {
			fmt.Fprintf(b, " (initializer %s)", strconv.Quote(n.Initializer.Code))
		}
		fmt.Fprintf(b, " (start %s)", n.StartRule)
		names := make([]string, 0, len(n.Rules))
		for name := range n.Rules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(" ")
			printNode(b, n.Rules[name])
		}
		b.WriteString(")")
	case *Rule:
		fmt.Fprintf(b, "(rule %s", n.Name)
		if n.DisplayName != "" {
			fmt.Fprintf(b, " %s", strconv.Quote(n.DisplayName))
		}
		b.WriteString(" ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *Choice:
		b.WriteString("(choice")
		for _, alt := range n.Alternatives {
			b.WriteString(" ")
			printNode(b, alt)
		}
		b.WriteString(")")
	case *Sequence:
		b.WriteString("(sequence")
		for _, el := range n.Elements {
			b.WriteString(" ")
			printNode(b, el)
		}
		b.WriteString(")")
	case *Labeled:
		fmt.Fprintf(b, "(label %s ", n.Label)
		printNode(b, n.Expr)
		b.WriteString(")")
	case *SimpleAnd:
		b.WriteString("(and ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *SimpleNot:
		b.WriteString("(not ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *SemanticAnd:
		fmt.Fprintf(b, "(sem-and %s)", strconv.Quote(n.Code))
	case *SemanticNot:
		fmt.Fprintf(b, "(sem-not %s)", strconv.Quote(n.Code))
	case *Optional:
		b.WriteString("(optional ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *ZeroOrMore:
		b.WriteString("(zero-or-more ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *OneOrMore:
		b.WriteString("(one-or-more ")
		printNode(b, n.Expr)
		b.WriteString(")")
	case *Action:
		b.WriteString("(action ")
		printNode(b, n.Expr)
		fmt.Fprintf(b, " %s)", strconv.Quote(n.Code))
	case *RuleRef:
		fmt.Fprintf(b, "(ref %s)", n.Name)
	case *Literal:
		fmt.Fprintf(b, "(literal %s)", strconv.Quote(n.Value))
	case *Any:
		b.WriteString("(any)")
	case *Class:
		b.WriteString("(class")
		if n.Inverted {
			b.WriteString(" ^")
		}
		for _, part := range n.Parts {
			if part.Range {
				fmt.Fprintf(b, " %c-%c", part.Lo, part.Hi)
			} else {
				fmt.Fprintf(b, " %c", part.Lo)
			}
		}
		b.WriteString(")")
	default:
		panic(&UnknownNodeKindError{Node: n})
	}
}
