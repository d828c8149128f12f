package formula

import "unicode/utf8"

// Compare = And { ('=' | '<>' | '>' | '<' | '>=' | '<=') And }
// And = Arith { '&' Arith }
// Arith = Term { ('+' | '-') Term }
// Term = Factor { ('*' | '/') Factor }
// Factor = [ '+' | '-' ] Range
// Range = Atom [ ':' Atom ]
// Atom = num | string | bool | ref | '(' Compare ')' | name | Call | Sheet
// Call = name '(' [ Compare { ',' Compare } ] ')'
// Sheet = sheet '!' ( ref | name | num )

// Parser builds syntax trees from tokens. It keeps its state between calls to
// Parse, so it must not be used concurrently.
type Parser struct {
	toks []Token
	pos  int
}

// Parse parses a complete formula from toks. The first error aborts the parse;
// there is never a partial tree.
func (p *Parser) Parse(toks []Token) (Node, error) {
	p.toks = toks
	p.pos = 0
	n, err := p.compare()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.current(); ok {
		return nil, &TokenError{Col: tok.Pos, Token: tok.source()}
	}
	return n, nil
}

// ParseTokens parses a formula from toks using a new Parser.
func ParseTokens(toks []Token) (Node, error) {
	var p Parser
	return p.Parse(toks)
}

// Parse is a shortcut to scan and parse formula text.
func Parse(text string) (Node, error) {
	toks, err := Scan(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

func (p *Parser) current() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) advance() {
	p.pos++
}

// eof creates an error for running out of tokens.
func (p *Parser) eof() error {
	if len(p.toks) == 0 {
		return &EOFError{Col: 1}
	}
	last := p.toks[len(p.toks)-1]
	return &EOFError{Col: last.Pos + utf8.RuneCountInString(last.source())}
}

// binary parses one left-associative precedence level. Operands are parsed by
// operand, and consecutive operators in class fold into a left-leaning tree.
func (p *Parser) binary(class []TokenKind, operand func() (Node, error)) (Node, error) {
	n, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.current()
		if !ok || !tok.in(class) {
			return n, nil
		}
		p.advance()
		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		n = &BinaryNode{Op: tok.Kind, Left: n, Right: rhs}
	}
}

func (p *Parser) compare() (Node, error) {
	return p.binary(compareOps, p.and)
}

func (p *Parser) and() (Node, error) {
	return p.binary(andOps, p.arith)
}

func (p *Parser) arith() (Node, error) {
	return p.binary(arithOps, p.term)
}

func (p *Parser) term() (Node, error) {
	return p.binary(termOps, p.factor)
}

// factor parses an optional sign. The operand of a sign is a range
// expression, not another factor, so "--1" is rejected.
func (p *Parser) factor() (Node, error) {
	tok, ok := p.current()
	if !ok {
		return nil, p.eof()
	}
	var sign float64
	switch tok.Kind {
	case TokenPlus:
		sign = 1
	case TokenMinus:
		sign = -1
	default:
		return p.rangeexpr()
	}
	p.advance()
	x, err := p.rangeexpr()
	if err != nil {
		return nil, err
	}
	return &SignedNode{Sign: sign, X: x}, nil
}

// rangeexpr parses an atom and, if a colon follows, a range whose kind is
// decided by the shape of that atom.
func (p *Parser) rangeexpr() (Node, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	colon, ok := p.current()
	if !ok || !colon.Matches(TokenColon) {
		return left, nil
	}
	p.advance()
	switch l := left.(type) {
	case *NumNode, *VarNode:
		return p.linerange(l, "", false, colon.Pos)
	case *UndeterminedRangeNode:
		return p.linerange(l.Anchor, l.Sheet, true, colon.Pos)
	case *RefNode:
		right, err := p.atom()
		if err != nil {
			return nil, err
		}
		r, ok := right.(*RefNode)
		if !ok {
			return nil, &RangeError{Col: colon.Pos, Reason: "the right side of a cell range must be a cell reference"}
		}
		return &RangeNode{From: l, To: r}, nil
	default:
		return nil, &RangeError{Col: colon.Pos, Reason: "the left side of a range must be a row, column, or cell reference"}
	}
}

// linerange parses the right side of a row or column range. left is the
// already parsed *NumNode or *VarNode.
func (p *Parser) linerange(left Node, sheet string, qualified bool, col int) (Node, error) {
	right, err := p.atom()
	if err != nil {
		return nil, err
	}
	switch l := left.(type) {
	case *NumNode:
		r, ok := right.(*NumNode)
		if !ok {
			return nil, &RangeError{Col: col, Reason: "the right side of a row range must be a row number"}
		}
		return &RowRangeNode{From: l.Value, To: r.Value, Sheet: sheet, Qualified: qualified}, nil
	case *VarNode:
		r, ok := right.(*VarNode)
		if !ok {
			return nil, &RangeError{Col: col, Reason: "the right side of a column range must be a column name"}
		}
		return &ColRangeNode{From: l.Name, To: r.Name, Sheet: sheet, Qualified: qualified}, nil
	default:
		return nil, &RangeError{Col: col, Reason: "the left side of a range must be a row or column reference"}
	}
}

// atom parses a literal, reference, parenthesized group, name, or call.
func (p *Parser) atom() (Node, error) {
	tok, ok := p.current()
	if !ok {
		return nil, p.eof()
	}
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return &NumNode{Value: tok.Num}, nil
	case TokenString:
		p.advance()
		return &StrNode{Value: tok.Text}, nil
	case TokenBool:
		p.advance()
		return &BoolNode{Value: tok.Bool}, nil
	case TokenRef:
		p.advance()
		return refnode(tok, "", false), nil
	case TokenLparen:
		return p.group()
	case TokenVar:
		p.advance()
		if next, ok := p.current(); ok && next.Matches(TokenLparen) {
			return p.call(tok.Text)
		}
		return &VarNode{Name: tok.Text}, nil
	case TokenSheet:
		p.advance()
		return p.sheet(tok.Text)
	default:
		return nil, &TokenError{Col: tok.Pos, Token: tok.source()}
	}
}

// group parses a parenthesized expression. The cursor is on the (.
func (p *Parser) group() (Node, error) {
	open, _ := p.current()
	p.advance()
	n, err := p.compare()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.current(); !ok || !tok.Matches(TokenRparen) {
		return nil, &BracketError{Col: open.Pos}
	}
	p.advance()
	return n, nil
}

// call parses the argument list of a call. The cursor is on the (. Commas
// only separate arguments, so "f(a,,b)" has two.
func (p *Parser) call(name string) (Node, error) {
	p.advance()
	n := &CallNode{Name: name}
	for {
		tok, ok := p.current()
		if !ok {
			return nil, p.eof()
		}
		switch tok.Kind {
		case TokenRparen:
			p.advance()
			return n, nil
		case TokenComma:
			p.advance()
		default:
			arg, err := p.compare()
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, arg)
		}
	}
}

// sheet parses what follows a sheet name. A name or number on another sheet
// can only be one end of a row or column range, so it produces an
// UndeterminedRangeNode for rangeexpr to resolve.
func (p *Parser) sheet(name string) (Node, error) {
	tok, ok := p.current()
	if !ok {
		return nil, p.eof()
	}
	if !tok.Matches(TokenCrossSheet) {
		return nil, &SheetError{Col: tok.Pos, Sheet: name}
	}
	p.advance()
	tok, ok = p.current()
	if !ok {
		return nil, p.eof()
	}
	switch tok.Kind {
	case TokenRef:
		p.advance()
		return refnode(tok, name, true), nil
	case TokenVar:
		p.advance()
		return &UndeterminedRangeNode{Sheet: name, Anchor: &VarNode{Name: tok.Text}}, nil
	case TokenNumber:
		p.advance()
		return &UndeterminedRangeNode{Sheet: name, Anchor: &NumNode{Value: tok.Num}}, nil
	default:
		return nil, &SheetError{Col: tok.Pos, Sheet: name, Marker: true}
	}
}

func refnode(tok Token, sheet string, qualified bool) *RefNode {
	return &RefNode{
		Cell:      tok.Text,
		Sheet:     sheet,
		Qualified: qualified,
		AbsCol:    tok.AbsCol,
		AbsRow:    tok.AbsRow,
	}
}
