package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pegcomp/pegcomp/ast"
	"github.com/pegcomp/pegcomp/reporter"
)

func lex(t *testing.T, source string) []token {
	t.Helper()
	lx, err := newLexer(strings.NewReader(source), "test.peg", reporter.NewHandler(nil))
	require.NoError(t, err)
	var tokens []token
	for {
		tok := lx.next()
		if tok.kind == tokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func kinds(tokens []token) []tokenKind {
	ks := make([]tokenKind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.kind
	}
	return ks
}

func TestLexerPunctuationAndIdents(t *testing.T) {
	t.Parallel()
	tokens := lex(t, "start = a:b / !c & d? e* f+ (.) ;")
	assert.Equal(t, []tokenKind{
		tokenIdent, tokenEquals, tokenIdent, tokenColon, tokenIdent,
		tokenSlash, tokenNot, tokenIdent, tokenAnd, tokenIdent, tokenQuestion,
		tokenIdent, tokenStar, tokenIdent, tokenPlus,
		tokenLParen, tokenDot, tokenRParen, tokenSemicolon,
	}, kinds(tokens))
	assert.Equal(t, "start", tokens[0].value)
}

func TestLexerSkipsComments(t *testing.T) {
	t.Parallel()
	tokens := lex(t, "a // line comment\n/* block\ncomment */ b")
	assert.Equal(t, []tokenKind{tokenIdent, tokenIdent}, kinds(tokens))
	assert.Equal(t, "b", tokens[1].value)
}

func TestLexerStrings(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		source   string
		expected string
	}{
		"double quoted":    {`"abc"`, "abc"},
		"single quoted":    {`'abc'`, "abc"},
		"simple escapes":   {`"a\n\r\t\b\f\v"`, "a\n\r\t\b\f\v"},
		"quote escapes":    {`"\"\'"`, `"'`},
		"zero escape":      {`"\0"`, "\x00"},
		"hex escape":       {`"\x41"`, "A"},
		"unicode escape":   {`"\u0042"`, "B"},
		"identity escape":  {`"\]"`, "]"},
		"line continued":   {"\"a\\\nb\"", "ab"},
		"empty":            {`""`, ""},
		"embedded quote":   {`'a"b'`, `a"b`},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tokens := lex(t, tc.source)
			require.Len(t, tokens, 1)
			assert.Equal(t, tokenString, tokens[0].kind)
			assert.Equal(t, tc.expected, tokens[0].value)
		})
	}
}

func TestLexerClasses(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		source   string
		parts    []ast.ClassPart
		inverted bool
	}{
		"single chars": {
			source: "[ab]",
			parts:  []ast.ClassPart{ast.NewClassChar('a'), ast.NewClassChar('b')},
		},
		"range": {
			source: "[a-z]",
			parts:  []ast.ClassPart{ast.NewClassRange('a', 'z')},
		},
		"mixed": {
			source: "[a-z0-9_]",
			parts: []ast.ClassPart{
				ast.NewClassRange('a', 'z'),
				ast.NewClassRange('0', '9'),
				ast.NewClassChar('_'),
			},
		},
		"inverted": {
			source:   "[^a-z]",
			parts:    []ast.ClassPart{ast.NewClassRange('a', 'z')},
			inverted: true,
		},
		"caret not first is literal": {
			source: "[a^]",
			parts:  []ast.ClassPart{ast.NewClassChar('a'), ast.NewClassChar('^')},
		},
		"leading dash is literal": {
			source: "[-a]",
			parts:  []ast.ClassPart{ast.NewClassChar('-'), ast.NewClassChar('a')},
		},
		"trailing dash is literal": {
			source: "[a-]",
			parts:  []ast.ClassPart{ast.NewClassChar('a'), ast.NewClassChar('-')},
		},
		"escaped bracket": {
			source: `[\]]`,
			parts:  []ast.ClassPart{ast.NewClassChar(']')},
		},
		"escaped range endpoints": {
			source: `[\x00-\x1F]`,
			parts:  []ast.ClassPart{ast.NewClassRange(0, 0x1F)},
		},
		"empty": {
			source: "[]",
			parts:  nil,
		},
		"empty inverted": {
			source:   "[^]",
			parts:    nil,
			inverted: true,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tokens := lex(t, tc.source)
			require.Len(t, tokens, 1)
			require.Equal(t, tokenClass, tokens[0].kind)
			assert.Equal(t, tc.parts, tokens[0].class.parts)
			assert.Equal(t, tc.inverted, tokens[0].class.inverted)
			assert.Equal(t, tc.source, tokens[0].class.rawText)
		})
	}
}

func TestLexerCodeBlocks(t *testing.T) {
	t.Parallel()
	tokens := lex(t, "{ return { a: 1 }; }")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenCode, tokens[0].kind)
	assert.Equal(t, " return { a: 1 }; ", tokens[0].value)

	tokens = lex(t, "{}")
	require.Len(t, tokens, 1)
	assert.Equal(t, "", tokens[0].value)
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		source      string
		expectedErr string
	}{
		"unexpected character":  {"a = @", `test.peg:1:5: unexpected character '@'`},
		"unterminated string":   {`"abc`, "test.peg:1:1: quoted string opened but not closed"},
		"string with newline":   {"\"a\nb\"", "test.peg:1:1: quoted string contains an unescaped line break"},
		"unterminated class":    {"[abc", "test.peg:1:1: character class opened but not closed"},
		"unterminated code":     {"{ return 1;", "test.peg:1:1: code block opened but not closed"},
		"unterminated comment":  {"/* abc", "test.peg:1:1: comment opened but not closed"},
		"bad hex digit":         {`"\xZ1"`, `test.peg:1:1: invalid hex digit 'Z' in escape sequence`},
		"backwards class range": {"[z-a]", "test.peg:1:1: invalid character range: z-a"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var reported []string
			rep := reporter.NewReporter(func(err reporter.ErrorWithPos) error {
				reported = append(reported, err.Error())
				return nil
			}, nil)
			lx, err := newLexer(strings.NewReader(tc.source), "test.peg", reporter.NewHandler(rep))
			require.NoError(t, err)
			for lx.next().kind != tokenEOF {
			}
			require.NotEmpty(t, reported)
			assert.Equal(t, tc.expectedErr, reported[0])
		})
	}
}

func TestLexerPositions(t *testing.T) {
	t.Parallel()
	source := "a = \"x\"\nbc = \"y\"\n"
	lx, err := newLexer(strings.NewReader(source), "test.peg", reporter.NewHandler(nil))
	require.NoError(t, err)

	var offsets []int
	for {
		tok := lx.next()
		if tok.kind == tokenEOF {
			break
		}
		offsets = append(offsets, tok.offset)
	}
	require.Len(t, offsets, 6)

	// the second rule's name starts line 2, column 1
	pos := lx.pos(offsets[3])
	assert.Equal(t, "test.peg", pos.Filename)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Col)

	// and its literal is at column 6
	pos = lx.pos(offsets[5])
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 6, pos.Col)
}

func TestLexerSkipsByteOrderMark(t *testing.T) {
	t.Parallel()
	tokens := lex(t, "\xEF\xBB\xBFa = \"x\"")
	require.NotEmpty(t, tokens)
	assert.Equal(t, tokenIdent, tokens[0].kind)
	assert.Equal(t, "a", tokens[0].value)
}
