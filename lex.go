package formula

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/zephyrtronium/bigfloat"
)

// numprec is the precision in bits of the intermediate values used to
// assemble numeric literals. A literal is rounded to float64 exactly once,
// after its exponent and percent sign are applied.
const numprec = 256

// Exponents outside [-maxexp, maxexp] saturate to 0 or +Inf without scaling.
const maxexp = 10000

var (
	maxexpf = big.NewFloat(maxexp)
	minexpf = big.NewFloat(-maxexp)
	hundred = big.NewFloat(100)
	one     = big.NewFloat(1)
)

// cellref matches the text of a single cell reference with optional anchors.
var cellref = regexp.MustCompile(`^\$?[A-Za-z]+\$?[0-9]+$`)

// Lexer scans formula text into tokens. It keeps its buffers between calls to
// Scan, so it must not be used concurrently.
type Lexer struct {
	src  []rune
	pos  int
	toks []Token
	buf  strings.Builder
}

// Scan tokenizes text. The returned slice belongs to the lexer and is valid
// until the next call to Scan.
func (l *Lexer) Scan(text string) ([]Token, error) {
	l.src = l.src[:0]
	for _, r := range text {
		l.src = append(l.src, r)
	}
	l.pos = 0
	l.toks = l.toks[:0]
	for {
		tok, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return l.toks, nil
		}
		l.toks = append(l.toks, tok)
	}
}

// Scan tokenizes text using a new Lexer.
func Scan(text string) ([]Token, error) {
	var l Lexer
	return l.Scan(text)
}

// peek returns the rune under the cursor without consuming it.
func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

// at reports whether the rune under the cursor is r.
func (l *Lexer) at(r rune) bool {
	c, ok := l.peek()
	return ok && c == r
}

// next scans the next token. The second result is false once the input is
// exhausted.
func (l *Lexer) next() (tok Token, ok bool, err error) {
	r, ok := l.peek()
	for ok && unicode.IsSpace(r) {
		l.pos++
		r, ok = l.peek()
	}
	if !ok {
		return Token{}, false, nil
	}
	tok.Pos = l.pos + 1
	if k := punct(r); k != TokenNone {
		l.pos++
		tok.Kind = k
		return tok, true, nil
	}
	switch {
	case r == '<':
		l.pos++
		tok.Kind = TokenLt
		if l.at('=') {
			l.pos++
			tok.Kind = TokenLte
		} else if l.at('>') {
			l.pos++
			tok.Kind = TokenNe
		}
	case r == '>':
		l.pos++
		tok.Kind = TokenGt
		if l.at('=') {
			l.pos++
			tok.Kind = TokenGte
		}
	case r == '"', r == '\'':
		l.pos++
		text, err := l.scanQuoted(r, tok.Pos)
		if err != nil {
			return tok, false, err
		}
		tok.Text = text
		tok.Kind = TokenString
		if r == '\'' {
			tok.Kind = TokenSheet
		}
	case isDigit(r):
		v, err := l.scanNum()
		if err != nil {
			return tok, false, err
		}
		tok.Kind = TokenNumber
		tok.Num, _ = v.Float64()
	case r == '$', isLetter(r):
		l.scanIdent(&tok)
	default:
		return tok, false, l.error("", string(r), tok.Pos)
	}
	return tok, true, nil
}

// punct returns the kind of a token that is always exactly one rune, or
// TokenNone.
func punct(r rune) TokenKind {
	switch r {
	case '(':
		return TokenLparen
	case ')':
		return TokenRparen
	case '+':
		return TokenPlus
	case '-':
		return TokenMinus
	case '*':
		return TokenMul
	case '/':
		return TokenDiv
	case ',':
		return TokenComma
	case ':':
		return TokenColon
	case '=':
		return TokenEe
	case '!':
		return TokenCrossSheet
	case '&':
		return TokenAnd
	default:
		return TokenNone
	}
}

// scanQuoted scans verbatim text up to the next delim. The cursor is just
// past the opening delimiter.
func (l *Lexer) scanQuoted(delim rune, col int) (string, error) {
	l.buf.Reset()
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		l.pos++
		if r == delim {
			return l.buf.String(), nil
		}
		l.buf.WriteRune(r)
	}
	return "", l.error("string", string(delim)+l.buf.String(), col)
}

// scanNum scans a numeric literal at the cursor. The digits after an exponent
// marker are scanned recursively, so they may have their own fraction,
// exponent, or percent sign.
func (l *Lexer) scanNum() (*big.Float, error) {
	l.buf.Reset()
	dot := false
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case isDigit(r):
			l.buf.WriteRune(r)
			l.pos++
		case r == '.':
			l.buf.WriteRune(r)
			if dot {
				return nil, l.error("number", l.buf.String(), l.pos+1)
			}
			dot = true
			l.pos++
		case r == 'e', r == 'E':
			base, err := l.decimal()
			if err != nil {
				return nil, err
			}
			text := l.buf.String() + string(r)
			l.pos++
			neg := false
			if l.at('+') || l.at('-') {
				neg = l.at('-')
				text += string(l.src[l.pos])
				l.pos++
			}
			if d, ok := l.peek(); !ok || !isDigit(d) {
				return nil, l.error("number", text, l.pos+1)
			}
			exp, err := l.scanNum()
			if err != nil {
				return nil, err
			}
			if neg {
				exp.Neg(exp)
			}
			return scale(base, exp), nil
		case r == '%':
			l.pos++
			v, err := l.decimal()
			if err != nil {
				return nil, err
			}
			return v.Quo(v, hundred), nil
		default:
			return l.decimal()
		}
	}
	return l.decimal()
}

// decimal converts the digits in the buffer.
func (l *Lexer) decimal() (*big.Float, error) {
	v, _, err := new(big.Float).SetPrec(numprec).Parse(l.buf.String(), 10)
	if err != nil {
		return nil, l.error("number", l.buf.String(), l.pos+1)
	}
	return v, nil
}

// scale sets base to base × 10^exp and returns it. The integer part of the
// exponent is applied by repeated squaring; bigfloat only ever sees a
// fraction in (0, 1).
func scale(base, exp *big.Float) *big.Float {
	switch {
	case base.Sign() == 0:
		return base
	case exp.Cmp(maxexpf) > 0:
		return base.SetInf(false)
	case exp.Cmp(minexpf) < 0:
		return base.SetInt64(0)
	}
	n, _ := exp.Int64()
	frac := new(big.Float).SetPrec(numprec).SetInt64(n)
	frac.Sub(exp, frac)
	if frac.Sign() < 0 {
		n--
		frac.Add(frac, one)
	}
	p := pow10(n)
	if frac.Sign() != 0 {
		ten := new(big.Float).SetPrec(numprec).SetInt64(10)
		p.Mul(p, bigfloat.Pow(new(big.Float).SetPrec(numprec), ten, frac))
	}
	return base.Mul(base, p)
}

// pow10 returns 10^n.
func pow10(n int64) *big.Float {
	neg := n < 0
	if neg {
		n = -n
	}
	p := new(big.Float).SetPrec(numprec).SetInt64(1)
	sq := new(big.Float).SetPrec(numprec).SetInt64(10)
	for n > 0 {
		if n&1 != 0 {
			p.Mul(p, sq)
		}
		n >>= 1
		if n > 0 {
			sq.Mul(sq, sq)
		}
	}
	if neg {
		p.Quo(one, p)
	}
	return p
}

// scanIdent scans an identifier at the cursor and classifies it as a
// boolean, sheet name, cell reference, or bare name.
func (l *Lexer) scanIdent(tok *Token) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if r != '$' && !isLetter(r) && !isDigit(r) {
			break
		}
		l.pos++
	}
	text := string(l.src[start:l.pos])
	switch {
	case text == "TRUE", text == "FALSE":
		tok.Kind = TokenBool
		tok.Bool = text == "TRUE"
	case l.at('!'):
		tok.Kind = TokenSheet
		tok.Text = text
	case cellref.MatchString(text):
		tok.Kind = TokenRef
		tok.AbsCol = text[0] == '$'
		tok.AbsRow = strings.LastIndexByte(text, '$') > 0
		tok.Text = strings.ReplaceAll(text, "$", "")
	default:
		tok.Kind = TokenVar
		tok.Text = text
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func (l *Lexer) error(kind, text string, col int) error {
	return &LexError{
		Text: text,
		Kind: kind,
		Col:  col,
	}
}

// LexError indicates invalid input to the lexer. It implements InputError.
type LexError struct {
	// Text is the part of the input that was being scanned when the error
	// was found, including the offending rune.
	Text string
	// Kind is the type of token the lexer was scanning: "number" for a
	// malformed numeric literal, "string" for an unterminated quoted string or
	// sheet name, or the empty string for an unexpected character.
	Kind string
	// Col is the 1-based rune column of the error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	switch err.Kind {
	case "":
		return "unexpected character at " + pos + ": " + err.Text
	case "string":
		return "unterminated string at " + pos + ": " + err.Text
	default:
		return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
	}
}

func (err *LexError) Pos() int {
	return err.Col
}
