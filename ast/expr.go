package ast

// Expr is implemented by all expression nodes: the right-hand side of a
// rule is a tree of Expr values.
type Expr interface {
	Node
	exprNode()
}

type expr struct {
	node
}

func (expr) exprNode() {}

// Choice is an ordered choice between two or more alternatives. The
// alternatives are tried left to right and the first one that matches
// wins; later alternatives are not tried even if the chosen one causes
// a failure further up the tree.
type Choice struct {
	expr
	Alternatives []Expr
}

func NewChoice(pos SourcePos, alternatives []Expr) *Choice {
	return &Choice{expr: expr{node{pos: pos}}, Alternatives: alternatives}
}

// Sequence matches its elements one after another; it fails, consuming
// nothing, unless all elements match.
type Sequence struct {
	expr
	Elements []Expr
}

func NewSequence(pos SourcePos, elements []Expr) *Sequence {
	return &Sequence{expr: expr{node{pos: pos}}, Elements: elements}
}

// Labeled binds the result of the inner expression to a name that user
// action code can refer to.
type Labeled struct {
	expr
	Label string
	Expr  Expr
}

func NewLabeled(pos SourcePos, label string, inner Expr) *Labeled {
	return &Labeled{expr: expr{node{pos: pos}}, Label: label, Expr: inner}
}

// SimpleAnd is the syntactic and-predicate &e: it succeeds when the
// inner expression matches, but consumes no input.
type SimpleAnd struct {
	expr
	Expr Expr
}

func NewSimpleAnd(pos SourcePos, inner Expr) *SimpleAnd {
	return &SimpleAnd{expr: expr{node{pos: pos}}, Expr: inner}
}

// SimpleNot is the syntactic not-predicate !e: it succeeds when the
// inner expression does not match, and consumes no input.
type SimpleNot struct {
	expr
	Expr Expr
}

func NewSimpleNot(pos SourcePos, inner Expr) *SimpleNot {
	return &SimpleNot{expr: expr{node{pos: pos}}, Expr: inner}
}

// SemanticAnd is the semantic predicate &{code}: user code evaluated at
// the current position; a truthy result lets the parse continue. It
// consumes no input.
type SemanticAnd struct {
	expr
	Code string
}

func NewSemanticAnd(pos SourcePos, code string) *SemanticAnd {
	return &SemanticAnd{expr: expr{node{pos: pos}}, Code: code}
}

// SemanticNot is the semantic predicate !{code}: like SemanticAnd with
// the sense inverted.
type SemanticNot struct {
	expr
	Code string
}

func NewSemanticNot(pos SourcePos, code string) *SemanticNot {
	return &SemanticNot{expr: expr{node{pos: pos}}, Code: code}
}

// Optional matches the inner expression zero or one time; it always
// succeeds.
type Optional struct {
	expr
	Expr Expr
}

func NewOptional(pos SourcePos, inner Expr) *Optional {
	return &Optional{expr: expr{node{pos: pos}}, Expr: inner}
}

// ZeroOrMore greedily matches the inner expression any number of
// times; it always succeeds.
type ZeroOrMore struct {
	expr
	Expr Expr
}

func NewZeroOrMore(pos SourcePos, inner Expr) *ZeroOrMore {
	return &ZeroOrMore{expr: expr{node{pos: pos}}, Expr: inner}
}

// OneOrMore greedily matches the inner expression as many times as
// possible, requiring at least one match.
type OneOrMore struct {
	expr
	Expr Expr
}

func NewOneOrMore(pos SourcePos, inner Expr) *OneOrMore {
	return &OneOrMore{expr: expr{node{pos: pos}}, Expr: inner}
}

// Action wraps an expression with user code that transforms its result.
// The action runs only when the expression matches; its return value
// becomes the result of the whole node.
type Action struct {
	expr
	Expr Expr
	Code string
}

func NewAction(pos SourcePos, inner Expr, code string) *Action {
	return &Action{expr: expr{node{pos: pos}}, Expr: inner, Code: code}
}

// RuleRef invokes another rule by name.
type RuleRef struct {
	expr
	Name string
}

func NewRuleRef(pos SourcePos, name string) *RuleRef {
	return &RuleRef{expr: expr{node{pos: pos}}, Name: name}
}

// Literal matches an exact string.
type Literal struct {
	expr
	Value string
}

func NewLiteral(pos SourcePos, value string) *Literal {
	return &Literal{expr: expr{node{pos: pos}}, Value: value}
}

// Any matches any single character.
type Any struct {
	expr
}

func NewAny(pos SourcePos) *Any {
	return &Any{expr: expr{node{pos: pos}}}
}

// ClassPart is one element of a character class: either a single
// character (Range is false and the character is in Lo) or an
// inclusive range Lo-Hi.
type ClassPart struct {
	Lo, Hi rune
	Range  bool
}

// NewClassChar returns a part matching the single character ch.
func NewClassChar(ch rune) ClassPart {
	return ClassPart{Lo: ch, Hi: ch}
}

// NewClassRange returns a part matching all characters between lo and
// hi, inclusive.
func NewClassRange(lo, hi rune) ClassPart {
	return ClassPart{Lo: lo, Hi: hi, Range: true}
}

// Class matches a single character against a set. RawText preserves
// the source spelling of the class, which the generated parser uses
// verbatim when reporting what it expected.
type Class struct {
	expr
	Parts    []ClassPart
	Inverted bool
	RawText  string
}

func NewClass(pos SourcePos, parts []ClassPart, inverted bool, rawText string) *Class {
	return &Class{expr: expr{node{pos: pos}}, Parts: parts, Inverted: inverted, RawText: rawText}
}
