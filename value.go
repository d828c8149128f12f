package formula

import (
	"errors"
	"math"
	"strconv"
)

// Kind is the type of a computed value.
type Kind int8

const (
	KindNumber Kind = iota
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the value of a formula: a number, string, or boolean. Only the
// field matching Kind is meaningful.
type Result struct {
	Kind Kind
	Num  float64
	Text string
	Bool bool
}

// NumberResult returns a number result.
func NumberResult(f float64) Result {
	return Result{Kind: KindNumber, Num: f}
}

// StringResult returns a string result.
func StringResult(s string) Result {
	return Result{Kind: KindString, Text: s}
}

// BoolResult returns a boolean result.
func BoolResult(b bool) Result {
	return Result{Kind: KindBool, Bool: b}
}

// String formats r the way a cell displays it.
func (r Result) String() string {
	switch r.Kind {
	case KindNumber:
		return formatNumber(r.Num)
	case KindString:
		return r.Text
	case KindBool:
		return formatBool(r.Bool)
	default:
		return "<" + r.Kind.String() + ">"
	}
}

// CellPosition is the cell that owns a formula. Evaluation passes it through
// to resolvers and functions; the evaluator itself does not use it.
type CellPosition struct {
	Sheet string
	Row   int
	Col   int
}

// number coerces r to a number for the arithmetic operator op.
func (r Result) number(op TokenKind) (float64, error) {
	switch r.Kind {
	case KindNumber:
		return r.Num, nil
	case KindString:
		f, err := strconv.ParseFloat(r.Text, 64)
		if err != nil {
			// Out of range strings still have an IEEE value.
			if errors.Is(err, strconv.ErrRange) {
				return f, nil
			}
			return 0, &CoercionError{Text: r.Text}
		}
		return f, nil
	default:
		return 0, &TypeError{Op: op.Symbol(), Kind: r.Kind}
	}
}

// compare applies the comparison operator op. Numbers compare with numbers
// and strings with strings; any string is greater than any number.
func compare(op TokenKind, l, r Result) (bool, error) {
	var a, b float64
	switch {
	case l.Kind == KindNumber && r.Kind == KindNumber:
		a, b = l.Num, r.Num
	case l.Kind == KindString && r.Kind == KindString:
		a = float64(strorder(l.Text, r.Text))
	case l.Kind == KindString && r.Kind == KindNumber:
		a = 1
	case l.Kind == KindNumber && r.Kind == KindString:
		a = -1
	default:
		k := l.Kind
		if k != KindBool {
			k = r.Kind
		}
		return false, &TypeError{Op: op.Symbol(), Kind: k}
	}
	switch op {
	case TokenEe:
		return a == b, nil
	case TokenNe:
		return a != b, nil
	case TokenGt:
		return a > b, nil
	case TokenLt:
		return a < b, nil
	case TokenGte:
		return a >= b, nil
	case TokenLte:
		return a <= b, nil
	default:
		panic("formula: compare with non-comparison operator " + op.String())
	}
}

// strorder orders two strings by character code: -1 if l is less, 0 if they
// are equal, and 1 otherwise. The first differing character decides. When
// one string is a strict prefix of the other, neither is less, so the result
// is 1 in both orders.
func strorder(l, r string) int {
	if l == r {
		return 0
	}
	rr := []rune(r)
	i := 0
	for _, c := range l {
		if i >= len(rr) {
			return 1
		}
		switch {
		case c < rr[i]:
			return -1
		case c > rr[i]:
			return 1
		}
		i++
	}
	return 1
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
