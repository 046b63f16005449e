package codegen

import (
	"strconv"
	"strings"

	"github.com/tidwall/btree"

	"github.com/pegcomp/pegcomp/ast"
)

// Generate emits the complete source of a packrat parser for the given
// grammar. The result is a single JavaScript expression that evaluates
// to the parser object; callers decide what to assign it to (see the
// Compiler and the CLI).
//
// The grammar is assumed to be well formed: Generate panics with
// *ast.UnknownNodeKindError on an expression node it does not know,
// and with *UndefinedVariableError or *UnrecognizedFilterError on a
// malformed template. All three indicate bugs, not bad user input.
func Generate(grammar *ast.Grammar) string {
	g := &generator{uids: newUIDAllocator()}
	return g.emitGrammar(grammar)
}

type generator struct {
	uids *uidAllocator
}

func (g *generator) emitGrammar(grammar *ast.Grammar) string {
	initializerCode := ""
	if grammar.Initializer != nil {
		initializerCode = g.emitInitializer(grammar.Initializer)
	}

	// The rules map has no deterministic iteration order, so both the
	// dispatch table and the function definitions are emitted in
	// lexicographic rule-name order. Re-generating an unchanged
	// grammar must produce byte-identical output.
	var rules btree.Map[string, *ast.Rule]
	for name, rule := range grammar.Rules {
		rules.Set(name, rule)
	}

	tableItems := make([]string, 0, rules.Len())
	definitions := make([]string, 0, rules.Len())
	rules.Scan(func(name string, rule *ast.Rule) bool {
		tableItems = append(tableItems, quoteJS(name)+": parse_"+name)
		definitions = append(definitions, g.emitRule(rule))
		return true
	})

	return format(
		"(function(){",
		"  /* Generated by pegcomp, a parser generator for parsing expression grammars. */",
		"  ",
		"  var result = {",
		"    /*",
		"     * Parses the input with a generated parser. If the parsing is successful,",
		"     * returns a value explicitly or implicitly specified by the grammar from",
		"     * which the parser was generated. If the parsing is unsuccessful, throws",
		"     * |SyntaxError| describing the error.",
		"     */",
		"    parse: function(input, startRule) {",
		"      var parseFunctions = {",
		"        ${parseFunctionTableItems}",
		"      };",
		"      ",
		"      if (startRule !== undefined) {",
		"        if (parseFunctions[startRule] === undefined) {",
		"          throw new Error(\"Invalid rule name: \" + quote(startRule) + \".\");",
		"        }",
		"      } else {",
		"        startRule = ${startRule|string};",
		"      }",
		"      ",
		"      var pos = 0;",
		"      var reportMatchFailures = true;",
		"      var rightmostMatchFailuresPos = 0;",
		"      var rightmostMatchFailuresExpected = [];",
		"      var cache = {};",
		"      ",
		"      function padLeft(input, padding, length) {",
		"        var result = input;",
		"        ",
		"        var padLength = length - input.length;",
		"        for (var i = 0; i < padLength; i++) {",
		"          result = padding + result;",
		"        }",
		"        ",
		"        return result;",
		"      }",
		"      ",
		"      function escape(ch) {",
		"        var charCode = ch.charCodeAt(0);",
		"        ",
		"        if (charCode <= 0xFF) {",
		"          var escapeChar = 'x';",
		"          var length = 2;",
		"        } else {",
		"          var escapeChar = 'u';",
		"          var length = 4;",
		"        }",
		"        ",
		"        return '\\\\' + escapeChar + padLeft(charCode.toString(16).toUpperCase(), '0', length);",
		"      }",
		"      ",
		"      function quote(s) {",
		"        /*",
		"         * ECMA-262, 5th ed., 7.8.4: All characters may appear literally in a",
		"         * string literal except for the closing quote character, backslash,",
		"         * carriage return, line separator, paragraph separator, and line feed.",
		"         * Any character may appear in the form of an escape sequence.",
		"         */",
		"        return '\"' + s",
		"          .replace(/\\\\/g, '\\\\\\\\')            // backslash",
		"          .replace(/\"/g, '\\\\\"')              // closing quote character",
		"          .replace(/\\r/g, '\\\\r')             // carriage return",
		"          .replace(/\\n/g, '\\\\n')             // line feed",
		"          .replace(/[\\x80-\\uFFFF]/g, escape) // non-ASCII characters",
		"          + '\"';",
		"      }",
		"      ",
		"      function matchFailed(failure) {",
		"        if (pos < rightmostMatchFailuresPos) {",
		"          return;",
		"        }",
		"        ",
		"        if (pos > rightmostMatchFailuresPos) {",
		"          rightmostMatchFailuresPos = pos;",
		"          rightmostMatchFailuresExpected = [];",
		"        }",
		"        ",
		"        rightmostMatchFailuresExpected.push(failure);",
		"      }",
		"      ",
		"      ${parseFunctionDefinitions}",
		"      ",
		"      function buildErrorMessage() {",
		"        function buildExpected(failuresExpected) {",
		"          failuresExpected.sort();",
		"          ",
		"          var lastFailure = null;",
		"          var failuresExpectedUnique = [];",
		"          for (var i = 0; i < failuresExpected.length; i++) {",
		"            if (failuresExpected[i] !== lastFailure) {",
		"              failuresExpectedUnique.push(failuresExpected[i]);",
		"              lastFailure = failuresExpected[i];",
		"            }",
		"          }",
		"          ",
		"          switch (failuresExpectedUnique.length) {",
		"            case 0:",
		"              return 'end of input';",
		"            case 1:",
		"              return failuresExpectedUnique[0];",
		"            default:",
		"              return failuresExpectedUnique.slice(0, failuresExpectedUnique.length - 1).join(', ')",
		"                + ' or '",
		"                + failuresExpectedUnique[failuresExpectedUnique.length - 1];",
		"          }",
		"        }",
		"        ",
		"        var expected = buildExpected(rightmostMatchFailuresExpected);",
		"        var actualPos = Math.max(pos, rightmostMatchFailuresPos);",
		"        var actual = actualPos < input.length",
		"          ? quote(input.charAt(actualPos))",
		"          : 'end of input';",
		"        ",
		"        return 'Expected ' + expected + ' but ' + actual + ' found.';",
		"      }",
		"      ",
		"      function computeErrorPosition() {",
		"        /*",
		"         * The first idea was to use |String.split| to break the input up to the",
		"         * error position along newlines and derive the line and column from",
		"         * there. However IE's |split| implementation is so broken that it was",
		"         * enough to prevent it.",
		"         */",
		"        ",
		"        var line = 1;",
		"        var column = 1;",
		"        var seenCR = false;",
		"        ",
		"        for (var i = 0; i < rightmostMatchFailuresPos; i++) {",
		"          var ch = input.charAt(i);",
		"          if (ch === '\\n') {",
		"            if (!seenCR) { line++; }",
		"            column = 1;",
		"            seenCR = false;",
		"          } else if (ch === '\\r' || ch === '\\u2028' || ch === '\\u2029') {",
		"            line++;",
		"            column = 1;",
		"            seenCR = true;",
		"          } else {",
		"            column++;",
		"            seenCR = false;",
		"          }",
		"        }",
		"        ",
		"        return { line: line, column: column };",
		"      }",
		"      ",
		"      ${initializerCode}",
		"      ",
		"      var result = parseFunctions[startRule]();",
		"      ",
		"      /*",
		"       * The parser is now in one of the following three states:",
		"       *",
		"       * 1. The parser successfully parsed the whole input.",
		"       *",
		"       *    - |result !== null|",
		"       *    - |pos === input.length|",
		"       *    - |rightmostMatchFailuresExpected| may or may not contain something",
		"       *",
		"       * 2. The parser successfully parsed only a part of the input.",
		"       *",
		"       *    - |result !== null|",
		"       *    - |pos < input.length|",
		"       *    - |rightmostMatchFailuresExpected| may or may not contain something",
		"       *",
		"       * 3. The parser did not successfully parse any part of the input.",
		"       *",
		"       *   - |result === null|",
		"       *   - |pos === 0|",
		"       *   - |rightmostMatchFailuresExpected| contains at least one failure",
		"       *",
		"       * All code following this comment (including called functions) must",
		"       * handle these states.",
		"       */",
		"      if (result === null || pos !== input.length) {",
		"        var errorPosition = computeErrorPosition();",
		"        throw new this.SyntaxError(",
		"          buildErrorMessage(),",
		"          errorPosition.line,",
		"          errorPosition.column",
		"        );",
		"      }",
		"      ",
		"      return result;",
		"    },",
		"    ",
		"    /* Returns the parser source code. */",
		"    toSource: function() { return this._source; }",
		"  };",
		"  ",
		"  /* Thrown when a parser encounters a syntax error. */",
		"  ",
		"  result.SyntaxError = function(message, line, column) {",
		"    this.name = 'SyntaxError';",
		"    this.message = message;",
		"    this.line = line;",
		"    this.column = column;",
		"  };",
		"  ",
		"  result.SyntaxError.prototype = Error.prototype;",
		"  ",
		"  return result;",
		"})()",
		vars{
			"parseFunctionTableItems":  strings.Join(tableItems, ",\n"),
			"parseFunctionDefinitions": strings.Join(definitions, "\n\n"),
			"startRule":                grammar.StartRule,
			"initializerCode":          initializerCode,
		},
	)
}

func (g *generator) emitInitializer(node *ast.Initializer) string {
	return node.Code
}

func (g *generator) emitRule(node *ast.Rule) string {
	// Identifiers restart at the top of every rule so that editing one
	// rule does not ripple renamed variables through the rest of the
	// generated file.
	g.uids.reset()

	resultVar := g.uids.next("result")

	var setReportMatchFailuresCode, restoreReportMatchFailuresCode, reportMatchFailureCode string
	if node.DisplayName != "" {
		setReportMatchFailuresCode = format(
			"var savedReportMatchFailures = reportMatchFailures;",
			"reportMatchFailures = false;",
		)
		restoreReportMatchFailuresCode = format(
			"reportMatchFailures = savedReportMatchFailures;",
		)
		reportMatchFailureCode = format(
			"if (reportMatchFailures && ${resultVar} === null) {",
			"  matchFailed(${displayName|string});",
			"}",
			vars{
				"displayName": node.DisplayName,
				"resultVar":   resultVar,
			},
		)
	}

	return format(
		"function parse_${name}() {",
		"  var cacheKey = '${name}@' + pos;",
		"  var cachedResult = cache[cacheKey];",
		"  if (cachedResult) {",
		"    pos = cachedResult.nextPos;",
		"    return cachedResult.result;",
		"  }",
		"  ",
		"  ${setReportMatchFailuresCode}",
		"  ${code}",
		"  ${restoreReportMatchFailuresCode}",
		"  ${reportMatchFailureCode}",
		"  ",
		"  cache[cacheKey] = {",
		"    nextPos: pos,",
		"    result:  ${resultVar}",
		"  };",
		"  return ${resultVar};",
		"}",
		vars{
			"name":                           node.Name,
			"setReportMatchFailuresCode":     setReportMatchFailuresCode,
			"restoreReportMatchFailuresCode": restoreReportMatchFailuresCode,
			"reportMatchFailureCode":         reportMatchFailureCode,
			"code":                           g.emitExpr(node.Expr, resultVar),
			"resultVar":                      resultVar,
		},
	)
}

// emitExpr dispatches on the expression node kind and emits a code
// fragment that binds the outcome to resultVar per the fragment
// contract: on a match, pos has advanced past the consumed input and
// resultVar is non-null; otherwise pos is back where it started and
// resultVar is null.
func (g *generator) emitExpr(node ast.Expr, resultVar string) string {
	switch node := node.(type) {
	case *ast.Choice:
		return g.emitChoice(node, resultVar)
	case *ast.Sequence:
		return g.emitSequence(node, resultVar)
	case *ast.Labeled:
		return g.emitLabeled(node, resultVar)
	case *ast.SimpleAnd:
		return g.emitSimpleAnd(node, resultVar)
	case *ast.SimpleNot:
		return g.emitSimpleNot(node, resultVar)
	case *ast.SemanticAnd:
		return g.emitSemanticAnd(node, resultVar)
	case *ast.SemanticNot:
		return g.emitSemanticNot(node, resultVar)
	case *ast.Optional:
		return g.emitOptional(node, resultVar)
	case *ast.ZeroOrMore:
		return g.emitZeroOrMore(node, resultVar)
	case *ast.OneOrMore:
		return g.emitOneOrMore(node, resultVar)
	case *ast.Action:
		return g.emitAction(node, resultVar)
	case *ast.RuleRef:
		return g.emitRuleRef(node, resultVar)
	case *ast.Literal:
		return g.emitLiteral(node, resultVar)
	case *ast.Any:
		return g.emitAny(node, resultVar)
	case *ast.Class:
		return g.emitClass(node, resultVar)
	default:
		panic(&ast.UnknownNodeKindError{Node: node})
	}
}

// emitChoice unfolds the alternatives right to left: the emitted code
// for alternative i wraps the accumulated code for alternatives i+1
// onward in its else branch, which yields left-to-right evaluation
// with first-match-wins short-circuiting at run time.
func (g *generator) emitChoice(node *ast.Choice, resultVar string) string {
	code := format(
		"var ${resultVar} = null;",
		vars{"resultVar": resultVar},
	)

	for i := len(node.Alternatives) - 1; i >= 0; i-- {
		alternativeResultVar := g.uids.next("result")
		code = format(
			"${alternativeCode}",
			"if (${alternativeResultVar} !== null) {",
			"  var ${resultVar} = ${alternativeResultVar};",
			"} else {",
			"  ${code}",
			"}",
			vars{
				"alternativeCode":      g.emitExpr(node.Alternatives[i], alternativeResultVar),
				"alternativeResultVar": alternativeResultVar,
				"code":                 code,
				"resultVar":            resultVar,
			},
		)
	}

	return code
}

func (g *generator) emitSequence(node *ast.Sequence, resultVar string) string {
	savedPosVar := g.uids.next("savedPos")

	elementResultVars := make([]string, len(node.Elements))
	for i := range node.Elements {
		elementResultVars[i] = g.uids.next("result")
	}

	code := format(
		"var ${resultVar} = ${elementResultVarArray};",
		vars{
			"resultVar":             resultVar,
			"elementResultVarArray": "[" + strings.Join(elementResultVars, ", ") + "]",
		},
	)

	for i := len(node.Elements) - 1; i >= 0; i-- {
		code = format(
			"${elementCode}",
			"if (${elementResultVar} !== null) {",
			"  ${code}",
			"} else {",
			"  var ${resultVar} = null;",
			"  pos = ${savedPosVar};",
			"}",
			vars{
				"elementCode":      g.emitExpr(node.Elements[i], elementResultVars[i]),
				"elementResultVar": elementResultVars[i],
				"code":             code,
				"resultVar":        resultVar,
				"savedPosVar":      savedPosVar,
			},
		)
	}

	return format(
		"var ${savedPosVar} = pos;",
		"${code}",
		vars{
			"code":        code,
			"savedPosVar": savedPosVar,
		},
	)
}

// emitLabeled is a pass-through; the label only matters to an
// enclosing action, which finds it by inspecting the AST.
func (g *generator) emitLabeled(node *ast.Labeled, resultVar string) string {
	return g.emitExpr(node.Expr, resultVar)
}

func (g *generator) emitSimpleAnd(node *ast.SimpleAnd, resultVar string) string {
	savedPosVar := g.uids.next("savedPos")
	savedReportMatchFailuresVar := g.uids.next("savedReportMatchFailuresVar")
	expressionResultVar := g.uids.next("result")

	return format(
		"var ${savedPosVar} = pos;",
		"var ${savedReportMatchFailuresVar} = reportMatchFailures;",
		"reportMatchFailures = false;",
		"${expressionCode}",
		"reportMatchFailures = ${savedReportMatchFailuresVar};",
		"if (${expressionResultVar} !== null) {",
		"  var ${resultVar} = '';",
		"  pos = ${savedPosVar};",
		"} else {",
		"  var ${resultVar} = null;",
		"}",
		vars{
			"expressionCode":              g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar":         expressionResultVar,
			"savedPosVar":                 savedPosVar,
			"savedReportMatchFailuresVar": savedReportMatchFailuresVar,
			"resultVar":                   resultVar,
		},
	)
}

func (g *generator) emitSimpleNot(node *ast.SimpleNot, resultVar string) string {
	savedPosVar := g.uids.next("savedPos")
	savedReportMatchFailuresVar := g.uids.next("savedReportMatchFailuresVar")
	expressionResultVar := g.uids.next("result")

	return format(
		"var ${savedPosVar} = pos;",
		"var ${savedReportMatchFailuresVar} = reportMatchFailures;",
		"reportMatchFailures = false;",
		"${expressionCode}",
		"reportMatchFailures = ${savedReportMatchFailuresVar};",
		"if (${expressionResultVar} === null) {",
		"  var ${resultVar} = '';",
		"} else {",
		"  var ${resultVar} = null;",
		"  pos = ${savedPosVar};",
		"}",
		vars{
			"expressionCode":              g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar":         expressionResultVar,
			"savedPosVar":                 savedPosVar,
			"savedReportMatchFailuresVar": savedReportMatchFailuresVar,
			"resultVar":                   resultVar,
		},
	)
}

func (g *generator) emitSemanticAnd(node *ast.SemanticAnd, resultVar string) string {
	return format(
		"var ${resultVar} = (function() {${actionCode}})() ? '' : null;",
		vars{
			"resultVar":  resultVar,
			"actionCode": node.Code,
		},
	)
}

func (g *generator) emitSemanticNot(node *ast.SemanticNot, resultVar string) string {
	return format(
		"var ${resultVar} = (function() {${actionCode}})() ? null : '';",
		vars{
			"resultVar":  resultVar,
			"actionCode": node.Code,
		},
	)
}

func (g *generator) emitOptional(node *ast.Optional, resultVar string) string {
	expressionResultVar := g.uids.next("result")

	return format(
		"${expressionCode}",
		"var ${resultVar} = ${expressionResultVar} !== null ? ${expressionResultVar} : '';",
		vars{
			"expressionCode":      g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar": expressionResultVar,
			"resultVar":           resultVar,
		},
	)
}

func (g *generator) emitZeroOrMore(node *ast.ZeroOrMore, resultVar string) string {
	expressionResultVar := g.uids.next("result")

	return format(
		"var ${resultVar} = [];",
		"${expressionCode}",
		"while (${expressionResultVar} !== null) {",
		"  ${resultVar}.push(${expressionResultVar});",
		"  ${expressionCode}",
		"}",
		vars{
			"expressionCode":      g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar": expressionResultVar,
			"resultVar":           resultVar,
		},
	)
}

func (g *generator) emitOneOrMore(node *ast.OneOrMore, resultVar string) string {
	expressionResultVar := g.uids.next("result")

	return format(
		"${expressionCode}",
		"if (${expressionResultVar} !== null) {",
		"  var ${resultVar} = [];",
		"  while (${expressionResultVar} !== null) {",
		"    ${resultVar}.push(${expressionResultVar});",
		"    ${expressionCode}",
		"  }",
		"} else {",
		"  var ${resultVar} = null;",
		"}",
		vars{
			"expressionCode":      g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar": expressionResultVar,
			"resultVar":           resultVar,
		},
	)
}

// emitAction wraps the user code in a function whose formal parameters
// are the labels of the wrapped expression. A labeled element of a
// sequence is passed as the corresponding element of the sequence's
// result array; a directly labeled expression is passed whole.
func (g *generator) emitAction(node *ast.Action, resultVar string) string {
	expressionResultVar := g.uids.next("result")

	var formalParams, actualParams []string
	switch expr := node.Expr.(type) {
	case *ast.Sequence:
		for i, element := range expr.Elements {
			if labeled, ok := element.(*ast.Labeled); ok {
				formalParams = append(formalParams, labeled.Label)
				actualParams = append(actualParams, expressionResultVar+"["+strconv.Itoa(i)+"]")
			}
		}
	case *ast.Labeled:
		formalParams = []string{expr.Label}
		actualParams = []string{expressionResultVar}
	}

	return format(
		"${expressionCode}",
		"var ${resultVar} = ${expressionResultVar} !== null",
		"  ? (function(${formalParams}) {${actionCode}})(${actualParams})",
		"  : null;",
		vars{
			"expressionCode":      g.emitExpr(node.Expr, expressionResultVar),
			"expressionResultVar": expressionResultVar,
			"actionCode":          node.Code,
			"formalParams":        strings.Join(formalParams, ", "),
			"actualParams":        strings.Join(actualParams, ", "),
			"resultVar":           resultVar,
		},
	)
}

func (g *generator) emitRuleRef(node *ast.RuleRef, resultVar string) string {
	return format(
		"var ${resultVar} = ${ruleMethodCall};",
		vars{
			"resultVar":      resultVar,
			"ruleMethodCall": "parse_" + node.Name + "()",
		},
	)
}

func (g *generator) emitLiteral(node *ast.Literal, resultVar string) string {
	length := jsStringLen(node.Value)

	return format(
		"if (input.substr(pos, ${length}) === ${value|string}) {",
		"  var ${resultVar} = ${value|string};",
		"  pos += ${length};",
		"} else {",
		"  var ${resultVar} = null;",
		"  if (reportMatchFailures) {",
		"    matchFailed(${valueQuoted|string});",
		"  }",
		"}",
		vars{
			"value":       node.Value,
			"valueQuoted": quoteJS(node.Value),
			"length":      strconv.Itoa(length),
			"resultVar":   resultVar,
		},
	)
}

func (g *generator) emitAny(node *ast.Any, resultVar string) string {
	return format(
		"if (input.length > pos) {",
		"  var ${resultVar} = input.charAt(pos);",
		"  pos++;",
		"} else {",
		"  var ${resultVar} = null;",
		"  if (reportMatchFailures) {",
		"    matchFailed('any character');",
		"  }",
		"}",
		vars{"resultVar": resultVar},
	)
}

func (g *generator) emitClass(node *ast.Class, resultVar string) string {
	var regexp string
	if len(node.Parts) > 0 {
		var b strings.Builder
		b.WriteString("/^[")
		if node.Inverted {
			b.WriteString("^")
		}
		for _, part := range node.Parts {
			if part.Range {
				b.WriteString(escapeForRegexpClass(part.Lo))
				b.WriteString("-")
				b.WriteString(escapeForRegexpClass(part.Hi))
			} else {
				b.WriteString(escapeForRegexpClass(part.Lo))
			}
		}
		b.WriteString("]/")
		regexp = b.String()
	} else {
		// IE considers regexps /[]/ and /[^]/ syntactically invalid,
		// so we translate them into equivalents it can handle.
		if node.Inverted {
			regexp = "/^[\\S\\s]/"
		} else {
			regexp = "/^(?!)/"
		}
	}

	return format(
		"if (input.substr(pos).match(${regexp}) !== null) {",
		"  var ${resultVar} = input.charAt(pos);",
		"  pos++;",
		"} else {",
		"  var ${resultVar} = null;",
		"  if (reportMatchFailures) {",
		"    matchFailed(${rawText|string});",
		"  }",
		"}",
		vars{
			"regexp":    regexp,
			"rawText":   node.RawText,
			"resultVar": resultVar,
		},
	)
}
