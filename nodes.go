package formula

import (
	"strings"
)

// Node is a node in the abstract syntax tree of a formula. The concrete types
// are NumNode, SignedNode, StrNode, BoolNode, VarNode, RefNode, BinaryNode,
// RangeNode, RowRangeNode, ColRangeNode, UndeterminedRangeNode, and CallNode.
// Each node owns its children, and the tree is not modified once Parse
// returns it.
//
// String formats a node as formula text which parses to an equivalent tree.
// Binary operations are always parenthesized.
type Node interface {
	String() string
	node()
}

// NumNode is a numeric literal.
type NumNode struct {
	Value float64
}

// SignedNode is an explicit unary + or - applied to X. Sign is 1 or -1.
type SignedNode struct {
	Sign float64
	X    Node
}

// StrNode is a string literal.
type StrNode struct {
	Value string
}

// BoolNode is TRUE or FALSE.
type BoolNode struct {
	Value bool
}

// VarNode is a bare name that is not a call.
type VarNode struct {
	Name string
}

// RefNode is a reference to a single cell. Cell has its $ anchors removed;
// AbsCol and AbsRow record where they were. Qualified is true when the
// reference names a sheet, which may be the empty name ''.
type RefNode struct {
	Cell      string
	Sheet     string
	Qualified bool
	AbsCol    bool
	AbsRow    bool
}

// BinaryNode is a binary operation. Op is one of the arithmetic, comparison,
// or concatenation token kinds.
type BinaryNode struct {
	Op    TokenKind
	Left  Node
	Right Node
}

// RangeNode is a rectangular range between two cells.
type RangeNode struct {
	From *RefNode
	To   *RefNode
}

// RowRangeNode is a range of whole rows, like 1:3. Sheet and Qualified are
// as for RefNode.
type RowRangeNode struct {
	From, To  float64
	Sheet     string
	Qualified bool
}

// ColRangeNode is a range of whole columns, like A:C.
type ColRangeNode struct {
	From, To  string
	Sheet     string
	Qualified bool
}

// UndeterminedRangeNode is a sheet-qualified name or number which could only
// be one end of a row or column range, like Sheet1!A in Sheet1!A:C. Anchor is
// a *NumNode or *VarNode. The parser replaces it with a RowRangeNode or
// ColRangeNode when a : follows.
type UndeterminedRangeNode struct {
	Sheet  string
	Anchor Node
}

// CallNode is a function call.
type CallNode struct {
	Name string
	Args []Node
}

func (*NumNode) node()               {}
func (*SignedNode) node()            {}
func (*StrNode) node()               {}
func (*BoolNode) node()              {}
func (*VarNode) node()               {}
func (*RefNode) node()               {}
func (*BinaryNode) node()            {}
func (*RangeNode) node()             {}
func (*RowRangeNode) node()          {}
func (*ColRangeNode) node()          {}
func (*UndeterminedRangeNode) node() {}
func (*CallNode) node()              {}

func (n *NumNode) String() string {
	return formatNumber(n.Value)
}

func (n *SignedNode) String() string {
	if n.Sign < 0 {
		return "-" + n.X.String()
	}
	return "+" + n.X.String()
}

func (n *StrNode) String() string {
	return `"` + n.Value + `"`
}

func (n *BoolNode) String() string {
	return formatBool(n.Value)
}

func (n *VarNode) String() string {
	return n.Name
}

func (n *RefNode) String() string {
	var b strings.Builder
	fmtsheet(&b, n.Sheet, n.Qualified)
	k := strings.IndexAny(n.Cell, "0123456789")
	if k < 0 {
		// Not from the lexer.
		b.WriteString(n.Cell)
		return b.String()
	}
	if n.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(n.Cell[:k])
	if n.AbsRow {
		b.WriteByte('$')
	}
	b.WriteString(n.Cell[k:])
	return b.String()
}

func (n *BinaryNode) String() string {
	return "(" + n.Left.String() + n.Op.Symbol() + n.Right.String() + ")"
}

func (n *RangeNode) String() string {
	return n.From.String() + ":" + n.To.String()
}

func (n *RowRangeNode) String() string {
	var b strings.Builder
	fmtsheet(&b, n.Sheet, n.Qualified)
	b.WriteString(formatNumber(n.From))
	b.WriteByte(':')
	b.WriteString(formatNumber(n.To))
	return b.String()
}

func (n *ColRangeNode) String() string {
	var b strings.Builder
	fmtsheet(&b, n.Sheet, n.Qualified)
	b.WriteString(n.From)
	b.WriteByte(':')
	b.WriteString(n.To)
	return b.String()
}

func (n *UndeterminedRangeNode) String() string {
	var b strings.Builder
	fmtsheet(&b, n.Sheet, true)
	b.WriteString(n.Anchor.String())
	return b.String()
}

func (n *CallNode) String() string {
	var b strings.Builder
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// fmtsheet writes a sheet prefix if qualified, quoting the name unless it
// would lex as a bare sheet name.
func fmtsheet(b *strings.Builder, sheet string, qualified bool) {
	if !qualified {
		return
	}
	bare := sheet != "" && (sheet[0] == '$' || isLetter(rune(sheet[0])))
	for _, r := range sheet {
		if r != '$' && !isLetter(r) && !isDigit(r) {
			bare = false
			break
		}
	}
	if sheet == "TRUE" || sheet == "FALSE" {
		bare = false
	}
	if bare {
		b.WriteString(sheet)
	} else {
		b.WriteByte('\'')
		b.WriteString(sheet)
		b.WriteByte('\'')
	}
	b.WriteByte('!')
}
