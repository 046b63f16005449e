package parser

import (
	"io"
	"strings"

	"github.com/pegcomp/pegcomp/ast"
	"github.com/pegcomp/pegcomp/reporter"
)

// Parse parses the contents of the given reader as a parsing
// expression grammar and returns the resulting AST. The given filename
// is used to construct error messages, which are reported to the given
// handler. Validation of the returned AST (such as checking that all
// referenced rules exist) is a separate step; see Validate.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ast.Grammar, error) {
	lx, err := newLexer(r, filename, handler)
	if err != nil {
		return nil, err
	}
	p := &grammarParser{lx: lx}
	grammar := p.parseGrammar()
	if err := handler.Error(); err != nil {
		return nil, err
	}
	return grammar, nil
}

// ParseString is a convenience wrapper around Parse for grammars held
// in memory.
func ParseString(filename, source string, handler *reporter.Handler) (*ast.Grammar, error) {
	return Parse(filename, strings.NewReader(source), handler)
}

// grammarParser is a recursive-descent parser over the lexer's token
// stream. The grammar language needs at most three tokens of lookahead
// (to tell a rule reference from the start of the next rule
// definition), which the lookahead buffer provides.
type grammarParser struct {
	lx        *grammarLex
	lookahead []token
}

func (p *grammarParser) peek(n int) token {
	for len(p.lookahead) <= n {
		p.lookahead = append(p.lookahead, p.lx.next())
	}
	return p.lookahead[n]
}

func (p *grammarParser) advance() token {
	tok := p.peek(0)
	p.lookahead = p.lookahead[1:]
	return tok
}

func (p *grammarParser) errorf(tok token, format string, args ...interface{}) {
	if p.lx.handler.HandleErrorf(p.lx.pos(tok.offset), format, args...) != nil {
		p.lx.failed = true
	}
}

func (p *grammarParser) expect(kind tokenKind, what string) (token, bool) {
	tok := p.peek(0)
	if tok.kind != kind {
		p.errorf(tok, "expected %s but found %s", what, describeToken(tok))
		return tok, false
	}
	return p.advance(), true
}

func describeToken(tok token) string {
	switch tok.kind {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return `identifier "` + tok.text + `"`
	default:
		return tok.kind.String()
	}
}

// parseGrammar parses an optional initializer followed by one or more
// rules.
func (p *grammarParser) parseGrammar() *ast.Grammar {
	grammar := ast.NewGrammar(p.lx.pos(0))

	if tok := p.peek(0); tok.kind == tokenCode {
		p.advance()
		grammar.Initializer = ast.NewInitializer(p.lx.pos(tok.offset), tok.value)
		if p.peek(0).kind == tokenSemicolon {
			p.advance()
		}
	}

	if p.peek(0).kind != tokenIdent {
		p.errorf(p.peek(0), "expected rule definition but found %s", describeToken(p.peek(0)))
		return grammar
	}

	for p.peek(0).kind == tokenIdent {
		rule := p.parseRule()
		if rule == nil {
			break
		}
		if !grammar.AddRule(rule) {
			p.errorf(token{offset: rule.Start().Offset}, "rule %q is already defined", rule.Name)
		}
	}

	if tok := p.peek(0); tok.kind != tokenEOF {
		p.errorf(tok, "expected rule definition but found %s", describeToken(tok))
	}

	return grammar
}

// parseRule parses: name ("display name")? "=" expression (";")?
func (p *grammarParser) parseRule() *ast.Rule {
	nameTok := p.advance()

	displayName := ""
	if tok := p.peek(0); tok.kind == tokenString {
		p.advance()
		displayName = tok.value
	}

	if _, ok := p.expect(tokenEquals, `"="`); !ok {
		return nil
	}

	expr := p.parseExpression()
	if expr == nil {
		return nil
	}

	if p.peek(0).kind == tokenSemicolon {
		p.advance()
	}

	return ast.NewRule(p.lx.pos(nameTok.offset), nameTok.value, displayName, expr)
}

func (p *grammarParser) parseExpression() ast.Expr {
	return p.parseChoice()
}

// parseChoice parses sequences separated by "/". A single alternative
// does not get wrapped in a choice node.
func (p *grammarParser) parseChoice() ast.Expr {
	first := p.parseSequence()
	if first == nil {
		return nil
	}
	if p.peek(0).kind != tokenSlash {
		return first
	}

	alternatives := []ast.Expr{first}
	for p.peek(0).kind == tokenSlash {
		p.advance()
		alt := p.parseSequence()
		if alt == nil {
			return nil
		}
		alternatives = append(alternatives, alt)
	}
	return ast.NewChoice(first.Start(), alternatives)
}

// parseSequence parses zero or more labeled expressions, optionally
// followed by an action. A single element does not get wrapped in a
// sequence node; an empty sequence is allowed and matches the empty
// string.
func (p *grammarParser) parseSequence() ast.Expr {
	start := p.peek(0)

	var elements []ast.Expr
	for p.startsLabeled() {
		element := p.parseLabeled()
		if element == nil {
			return nil
		}
		elements = append(elements, element)
	}

	var expr ast.Expr
	if len(elements) == 1 {
		expr = elements[0]
	} else {
		expr = ast.NewSequence(p.lx.pos(start.offset), elements)
	}

	if tok := p.peek(0); tok.kind == tokenCode {
		p.advance()
		return ast.NewAction(expr.Start(), expr, tok.value)
	}
	return expr
}

// startsLabeled reports whether the upcoming tokens can begin another
// element of the current sequence. An identifier is ambiguous: it may
// be a rule reference, or it may start the next rule definition. The
// next rule case is identifier (string)? "=", which is what the
// extra lookahead checks for.
func (p *grammarParser) startsLabeled() bool {
	switch p.peek(0).kind {
	case tokenAnd, tokenNot, tokenString, tokenClass, tokenDot, tokenLParen:
		return true
	case tokenIdent:
		if p.peek(1).kind == tokenEquals {
			return false
		}
		if p.peek(1).kind == tokenString && p.peek(2).kind == tokenEquals {
			return false
		}
		return true
	default:
		return false
	}
}

// parseLabeled parses: (label ":")? prefixed
func (p *grammarParser) parseLabeled() ast.Expr {
	if p.peek(0).kind == tokenIdent && p.peek(1).kind == tokenColon {
		labelTok := p.advance()
		p.advance() // the colon
		inner := p.parsePrefixed()
		if inner == nil {
			return nil
		}
		return ast.NewLabeled(p.lx.pos(labelTok.offset), labelTok.value, inner)
	}
	return p.parsePrefixed()
}

// parsePrefixed parses an expression with an optional "&" or "!"
// prefix. A prefix followed by a code block is a semantic predicate;
// otherwise it is a syntactic one.
func (p *grammarParser) parsePrefixed() ast.Expr {
	switch tok := p.peek(0); tok.kind {
	case tokenAnd:
		p.advance()
		if code := p.peek(0); code.kind == tokenCode {
			p.advance()
			return ast.NewSemanticAnd(p.lx.pos(tok.offset), code.value)
		}
		inner := p.parseSuffixed()
		if inner == nil {
			return nil
		}
		return ast.NewSimpleAnd(p.lx.pos(tok.offset), inner)
	case tokenNot:
		p.advance()
		if code := p.peek(0); code.kind == tokenCode {
			p.advance()
			return ast.NewSemanticNot(p.lx.pos(tok.offset), code.value)
		}
		inner := p.parseSuffixed()
		if inner == nil {
			return nil
		}
		return ast.NewSimpleNot(p.lx.pos(tok.offset), inner)
	default:
		return p.parseSuffixed()
	}
}

// parseSuffixed parses a primary expression with an optional "?", "*",
// or "+" suffix.
func (p *grammarParser) parseSuffixed() ast.Expr {
	primary := p.parsePrimary()
	if primary == nil {
		return nil
	}
	switch p.peek(0).kind {
	case tokenQuestion:
		p.advance()
		return ast.NewOptional(primary.Start(), primary)
	case tokenStar:
		p.advance()
		return ast.NewZeroOrMore(primary.Start(), primary)
	case tokenPlus:
		p.advance()
		return ast.NewOneOrMore(primary.Start(), primary)
	default:
		return primary
	}
}

func (p *grammarParser) parsePrimary() ast.Expr {
	switch tok := p.peek(0); tok.kind {
	case tokenIdent:
		p.advance()
		return ast.NewRuleRef(p.lx.pos(tok.offset), tok.value)
	case tokenString:
		p.advance()
		return ast.NewLiteral(p.lx.pos(tok.offset), tok.value)
	case tokenClass:
		p.advance()
		return ast.NewClass(p.lx.pos(tok.offset), tok.class.parts, tok.class.inverted, tok.class.rawText)
	case tokenDot:
		p.advance()
		return ast.NewAny(p.lx.pos(tok.offset))
	case tokenLParen:
		p.advance()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(tokenRParen, `")"`); !ok {
			return nil
		}
		return expr
	default:
		p.errorf(tok, "expected expression but found %s", describeToken(tok))
		return nil
	}
}
