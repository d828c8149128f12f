package formula

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func num(v float64) *NumNode {
	return &NumNode{Value: v}
}

func bin(op TokenKind, l, r Node) *BinaryNode {
	return &BinaryNode{Op: op, Left: l, Right: r}
}

func ref(cell string) *RefNode {
	return &RefNode{Cell: cell}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    Node
	}{
		{"num", "1", num(1)},
		{"string", `"abc"`, &StrNode{Value: "abc"}},
		{"bool", "FALSE", &BoolNode{Value: false}},
		{"var", "x", &VarNode{Name: "x"}},
		{"ref", "A1", ref("A1")},
		{"ref-anchored", "$B$2", &RefNode{Cell: "B2", AbsCol: true, AbsRow: true}},
		{"paren", "((1))", num(1)},

		{"add", "1+2", bin(TokenPlus, num(1), num(2))},
		{"add3", "1+2+3", bin(TokenPlus, bin(TokenPlus, num(1), num(2)), num(3))},
		{"sub3", "1-2-3", bin(TokenMinus, bin(TokenMinus, num(1), num(2)), num(3))},
		{"div3", "1/2/3", bin(TokenDiv, bin(TokenDiv, num(1), num(2)), num(3))},
		{"mul-add", "1+2*3", bin(TokenPlus, num(1), bin(TokenMul, num(2), num(3)))},
		{"add-mul", "(1+2)*3", bin(TokenMul, bin(TokenPlus, num(1), num(2)), num(3))},
		{"concat-add", `"a"&1+2`, bin(TokenAnd, &StrNode{Value: "a"}, bin(TokenPlus, num(1), num(2)))},
		{"compare-concat", `"a"&"b"="ab"`, bin(TokenEe, bin(TokenAnd, &StrNode{Value: "a"}, &StrNode{Value: "b"}), &StrNode{Value: "ab"})},
		{"compare-chain", "1<2<>TRUE", bin(TokenNe, bin(TokenLt, num(1), num(2)), &BoolNode{Value: true})},
		{"compare-all", "1>=2", bin(TokenGte, num(1), num(2))},

		{"neg", "-1", &SignedNode{Sign: -1, X: num(1)}},
		{"plus", "+x", &SignedNode{Sign: 1, X: &VarNode{Name: "x"}}},
		{"neg-mul", "-2*3", bin(TokenMul, &SignedNode{Sign: -1, X: num(2)}, num(3))},
		{"sub-neg", "1--2", bin(TokenMinus, num(1), &SignedNode{Sign: -1, X: num(2)})},
		{"neg-range", "-A1:B2", &SignedNode{Sign: -1, X: &RangeNode{From: ref("A1"), To: ref("B2")}}},

		{"range", "A1:B2", &RangeNode{From: ref("A1"), To: ref("B2")}},
		{"range-rows", "1:3", &RowRangeNode{From: 1, To: 3}},
		{"range-cols", "A:C", &ColRangeNode{From: "A", To: "C"}},
		{"range-sheet", "Sheet2!A1:B2", &RangeNode{From: &RefNode{Cell: "A1", Sheet: "Sheet2", Qualified: true}, To: ref("B2")}},
		{"range-sheet-both", "Sheet2!A1:Sheet2!B2", &RangeNode{From: &RefNode{Cell: "A1", Sheet: "Sheet2", Qualified: true}, To: &RefNode{Cell: "B2", Sheet: "Sheet2", Qualified: true}}},
		{"range-sheet-rows", "Sheet2!1:3", &RowRangeNode{From: 1, To: 3, Sheet: "Sheet2", Qualified: true}},
		{"range-sheet-cols", "'My Sheet'!A:C", &ColRangeNode{From: "A", To: "C", Sheet: "My Sheet", Qualified: true}},
		{"range-add", "A1:A2+1", bin(TokenPlus, &RangeNode{From: ref("A1"), To: ref("A2")}, num(1))},
		{"range-paren-ref", "(A1):B2", &RangeNode{From: ref("A1"), To: ref("B2")}},

		{"sheet-ref", "Sheet2!A1", &RefNode{Cell: "A1", Sheet: "Sheet2", Qualified: true}},
		{"sheet-ref-quoted", "'Year 2024'!$C$3", &RefNode{Cell: "C3", Sheet: "Year 2024", Qualified: true, AbsCol: true, AbsRow: true}},
		{"sheet-var", "Sheet2!A", &UndeterminedRangeNode{Sheet: "Sheet2", Anchor: &VarNode{Name: "A"}}},
		{"sheet-empty", "''!A1", &RefNode{Cell: "A1", Qualified: true}},
		{"sheet-empty-cols", "''!A:B", &ColRangeNode{From: "A", To: "B", Qualified: true}},
		{"sheet-num", "Sheet2!4", &UndeterminedRangeNode{Sheet: "Sheet2", Anchor: num(4)}},

		{"call0", "PI()", &CallNode{Name: "PI"}},
		{"call1", "ABS(-1)", &CallNode{Name: "ABS", Args: []Node{&SignedNode{Sign: -1, X: num(1)}}}},
		{"call-range", "SUM(A1:A5)", &CallNode{Name: "SUM", Args: []Node{&RangeNode{From: ref("A1"), To: ref("A5")}}}},
		{"call3", "IF(A1>0, \"pos\", 0)", &CallNode{Name: "IF", Args: []Node{
			bin(TokenGt, ref("A1"), num(0)),
			&StrNode{Value: "pos"},
			num(0),
		}}},
		{"call-commas", "F(,1,,2,)", &CallNode{Name: "F", Args: []Node{num(1), num(2)}}},
		{"call-juxtaposed", "F(1 2)", &CallNode{Name: "F", Args: []Node{num(1), num(2)}}},
		{"call-nested", "F(G(1), 2)", &CallNode{Name: "F", Args: []Node{&CallNode{Name: "G", Args: []Node{num(1)}}, num(2)}}},
		{"call-add", "F()+1", bin(TokenPlus, &CallNode{Name: "F"}, num(1))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := Parse(c.src)
			require.NoError(t, err, "parsing %q", c.src)
			require.Equal(t, c.n, n, "parsing %q gave %v", c.src, n)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		// err is a pointer to a nil pointer of the expected error type.
		err interface{}
		col int
	}{
		{"empty", "", new(*EOFError), 1},
		{"add-eof", "1+", new(*EOFError), 3},
		{"neg-eof", "-", new(*EOFError), 2},
		{"call-eof", "SUM(", new(*EOFError), 5},
		{"call-arg-eof", "SUM(1,", new(*EOFError), 7},
		{"range-eof", "A1:", new(*EOFError), 4},
		{"sheet-eof", "Sheet1!", new(*EOFError), 8},
		{"quoted-sheet-eof", "'S'", new(*EOFError), 4},

		{"range-ref-col", "A1:B", new(*RangeError), 3},
		{"range-ref-num", "A1:2", new(*RangeError), 3},
		{"range-num-col", "1:B", new(*RangeError), 2},
		{"range-col-num", "A:2", new(*RangeError), 2},
		{"range-col-ref", "A:B2", new(*RangeError), 2},
		{"range-string", `"a":B2`, new(*RangeError), 4},
		{"range-call", "F():B2", new(*RangeError), 4},
		{"range-sheet-col-num", "Sheet1!A:1", new(*RangeError), 9},
		{"range-double", "A1:B2:C3", new(*TokenError), 6},

		{"paren-eof", "(1+2", new(*BracketError), 1},
		{"paren-junk", "(1 2)", new(*BracketError), 1},
		{"paren-inner", "((1)", new(*BracketError), 1},

		{"sheet-marker", "'S' A1", new(*SheetError), 5},
		{"sheet-string", `Sheet1!"x"`, new(*SheetError), 8},
		{"sheet-sheet", "Sheet1!Sheet2!A1", new(*SheetError), 8},

		{"double-neg", "--1", new(*TokenError), 2},
		{"close", ")", new(*TokenError), 1},
		{"trailing", "1 2", new(*TokenError), 3},
		{"trailing-paren", "1+2)", new(*TokenError), 4},
		{"leading-eq", "=1", new(*TokenError), 1},
		{"bang", "!A1", new(*TokenError), 1},
		{"comma", "1,2", new(*TokenError), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n, err := Parse(c.src)
			require.Error(t, err, "parsing %q gave %v", c.src, n)
			require.Nil(t, n)
			require.True(t, errors.As(err, c.err), "parsing %q gave %#v", c.src, err)
			var ierr InputError
			require.True(t, errors.As(err, &ierr))
			require.Equal(t, c.col, ierr.Pos(), "error %v", err)
		})
	}
}

func TestParseEOFDistinct(t *testing.T) {
	// Running out of tokens is never reported as a shape error.
	for _, src := range []string{"A1:", "1:", "A:", "Sheet1!A:", "F(A1:"} {
		_, err := Parse(src)
		var eof *EOFError
		require.True(t, errors.As(err, &eof), "parsing %q gave %#v", src, err)
	}
}

func TestParseDeep(t *testing.T) {
	src := strings.Repeat("(", 1000) + "1" + strings.Repeat(")", 1000)
	n, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, num(1), n)
}

func TestParserReuse(t *testing.T) {
	var p Parser
	toks, err := Scan("1+2")
	require.NoError(t, err)
	n, err := p.Parse(toks)
	require.NoError(t, err)
	require.Equal(t, bin(TokenPlus, num(1), num(2)), n)

	toks, err = Scan("A1:B")
	require.NoError(t, err)
	_, err = p.Parse(toks)
	require.Error(t, err)

	toks, err = Scan("3")
	require.NoError(t, err)
	n, err = p.Parse(toks)
	require.NoError(t, err)
	require.Equal(t, num(3), n)
}

func TestNodeString(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1+2*3", "(1+(2*3))"},
		{"-x", "-x"},
		{`"a"&50%`, `("a"&0.5)`},
		{"$A1:B$2", "$A1:B$2"},
		{"'My Sheet'!A1", "'My Sheet'!A1"},
		{"Sheet1!1:3", "Sheet1!1:3"},
		{"Sheet1!A", "Sheet1!A"},
		{"A:C", "A:C"},
		{"''!A1", "''!A1"},
		{"''!1:2", "''!1:2"},
		{"''!B", "''!B"},
		{"SUM(A1:A5,2)", "SUM(A1:A5, 2)"},
		{"1<>TRUE", "(1<>TRUE)"},
		{"1.5e-1", "0.15"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n, err := Parse(c.src)
			require.NoError(t, err)
			require.Equal(t, c.want, n.String())
			// The formatted text parses to the same tree.
			m, err := Parse(n.String())
			require.NoError(t, err)
			require.Equal(t, n, m)
		})
	}
}

func TestNodeStringSheets(t *testing.T) {
	cases := []struct {
		n    Node
		want string
	}{
		{&RefNode{Cell: "A1", Sheet: "TRUE", Qualified: true}, "'TRUE'!A1"},
		{&RefNode{Cell: "A1", Qualified: true}, "''!A1"},
		{&RefNode{Cell: "A1"}, "A1"},
		{&RowRangeNode{From: 1, To: 2, Qualified: true}, "''!1:2"},
		{&ColRangeNode{From: "A", To: "B", Sheet: "Q1 2024", Qualified: true}, "'Q1 2024'!A:B"},
		{&UndeterminedRangeNode{Anchor: num(3)}, "''!3"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			require.Equal(t, c.want, c.n.String())
			m, err := Parse(c.want)
			require.NoError(t, err)
			require.Equal(t, c.n, m)
		})
	}
}
