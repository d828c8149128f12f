package formula

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrorder(t *testing.T) {
	cases := []struct {
		l, r string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"a", "b", -1},
		{"b", "a", 1},
		{"abc", "abd", -1},
		{"Z", "a", -1},
		{"ab", "abc", 1},
		{"abc", "ab", 1},
		{"", "a", 1},
		{"a", "", 1},
		{"e", "é", -1},
		{"世", "界", -1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, strorder(c.l, c.r), "strorder(%q, %q)", c.l, c.r)
	}
}

func TestCompareKinds(t *testing.T) {
	b, err := compare(TokenGt, StringResult(""), NumberResult(math.Inf(1)))
	require.NoError(t, err)
	require.True(t, b)
	b, err = compare(TokenLte, NumberResult(math.Inf(1)), StringResult(""))
	require.NoError(t, err)
	require.True(t, b)

	_, err = compare(TokenEe, BoolResult(true), NumberResult(1))
	var terr *TypeError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, KindBool, terr.Kind)
	require.Equal(t, "=", terr.Op)
	_, err = compare(TokenNe, StringResult("a"), BoolResult(false))
	require.ErrorAs(t, err, &terr)
	require.Equal(t, KindBool, terr.Kind)
	require.EqualError(t, err, "cannot apply <> to boolean")
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		f    float64
		want string
	}{
		{0, "0"},
		{-2, "-2"},
		{0.1, "0.1"},
		{2.5, "2.5"},
		{123456789012345, "123456789012345"},
		{1e15, "1e+15"},
		{1e-7, "1e-07"},
		{math.Inf(1), "+Inf"},
		{math.NaN(), "NaN"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, formatNumber(c.f), "formatting %v", c.f)
	}
}

func TestResultString(t *testing.T) {
	require.Equal(t, "2.5", NumberResult(2.5).String())
	require.Equal(t, "x y", StringResult("x y").String())
	require.Equal(t, "TRUE", BoolResult(true).String())
	require.Equal(t, "FALSE", BoolResult(false).String())
	require.Equal(t, "<Kind(9)>", Result{Kind: 9}.String())
	require.Equal(t, "boolean", KindBool.String())
}

func TestNumberCoercion(t *testing.T) {
	f, err := StringResult("-1.5e2").number(TokenPlus)
	require.NoError(t, err)
	require.Equal(t, -150.0, f)

	_, err = StringResult("12abc").number(TokenPlus)
	var cerr *CoercionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "12abc", cerr.Text)
	require.EqualError(t, err, `cannot convert "12abc" to number`)

	_, err = BoolResult(true).number(TokenMul)
	require.EqualError(t, err, "cannot apply * to boolean")
}
