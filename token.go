package formula

import (
	"strconv"
)

// TokenKind is the tag of a lexical token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNumber is a numeric literal. Its value is in Num.
	TokenNumber
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenLparen
	TokenRparen
	// TokenRef is a single cell reference like A1. Text holds the reference
	// with any $ anchors removed.
	TokenRef
	// TokenVar is a bare identifier, either a name or a function name.
	TokenVar
	// TokenSheet is a sheet name, either quoted with ' or an identifier
	// directly followed by !.
	TokenSheet
	// TokenEe is =, which compares for equality.
	TokenEe
	TokenNe
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenComma
	TokenColon
	// TokenString is a double-quoted string literal. Text holds the contents.
	TokenString
	// TokenCrossSheet is the ! separating a sheet name from a reference.
	TokenCrossSheet
	// TokenAnd is &, string concatenation.
	TokenAnd
	// TokenBool is TRUE or FALSE. Its value is in Bool.
	TokenBool
)

var kindnames = [...]string{
	TokenNone:       "None",
	TokenNumber:     "Number",
	TokenPlus:       "Plus",
	TokenMinus:      "Minus",
	TokenMul:        "Mul",
	TokenDiv:        "Div",
	TokenLparen:     "Lparen",
	TokenRparen:     "Rparen",
	TokenRef:        "Ref",
	TokenVar:        "Var",
	TokenSheet:      "Sheet",
	TokenEe:         "Ee",
	TokenNe:         "Ne",
	TokenLt:         "Lt",
	TokenGt:         "Gt",
	TokenLte:        "Lte",
	TokenGte:        "Gte",
	TokenComma:      "Comma",
	TokenColon:      "Colon",
	TokenString:     "String",
	TokenCrossSheet: "CrossSheet",
	TokenAnd:        "And",
	TokenBool:       "Bool",
}

var kindsyms = [...]string{
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenMul:        "*",
	TokenDiv:        "/",
	TokenLparen:     "(",
	TokenRparen:     ")",
	TokenEe:         "=",
	TokenNe:         "<>",
	TokenLt:         "<",
	TokenGt:         ">",
	TokenLte:        "<=",
	TokenGte:        ">=",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenCrossSheet: "!",
	TokenAnd:        "&",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// Symbol returns the source text of an operator or punctuation kind, or the
// empty string for kinds that carry a payload.
func (k TokenKind) Symbol() string {
	if k < 0 || int(k) >= len(kindsyms) {
		return ""
	}
	return kindsyms[k]
}

// Token is a lexical token. Only the payload field matching Kind is
// meaningful.
type Token struct {
	Kind TokenKind
	// Num is the value of a TokenNumber.
	Num float64
	// Text is the payload of TokenRef, TokenVar, TokenSheet and TokenString.
	Text string
	// Bool is the value of a TokenBool.
	Bool bool
	// AbsCol and AbsRow record the $ anchors of a TokenRef.
	AbsCol, AbsRow bool
	// Pos is the 1-based rune column at which the token starts.
	Pos int
}

// Matches reports whether t has kind k, regardless of payload.
func (t Token) Matches(k TokenKind) bool {
	return t.Kind == k
}

// in reports whether t matches any of the kinds in class.
func (t Token) in(class []TokenKind) bool {
	for _, k := range class {
		if t.Matches(k) {
			return true
		}
	}
	return false
}

// source returns text approximating how the token was written.
func (t Token) source() string {
	switch t.Kind {
	case TokenNumber:
		return formatNumber(t.Num)
	case TokenRef, TokenVar:
		return t.Text
	case TokenSheet:
		return "'" + t.Text + "'"
	case TokenString:
		return strconv.Quote(t.Text)
	case TokenBool:
		return formatBool(t.Bool)
	default:
		return t.Kind.Symbol()
	}
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.source() + "@" + strconv.Itoa(t.Pos)
}

// Operator classes, one per binary precedence level.
var (
	compareOps = []TokenKind{TokenEe, TokenNe, TokenGt, TokenLt, TokenGte, TokenLte}
	andOps     = []TokenKind{TokenAnd}
	arithOps   = []TokenKind{TokenPlus, TokenMinus}
	termOps    = []TokenKind{TokenMul, TokenDiv}
)
