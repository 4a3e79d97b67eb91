package value_test

import (
	"testing"

	"github.com/broyeztony/sheets/value"
	"github.com/stretchr/testify/require"
)

func num(t *testing.T, s string) value.Value {
	t.Helper()
	d, ok := value.ParseDecimalLiteral(s)
	require.True(t, ok, s)
	return value.Number(d)
}

func TestNumberDisplayStripsTrailingZeros(t *testing.T) {
	require.Equal(t, "1", num(t, "1.000").Display())
	require.Equal(t, "0.5", num(t, "0.500").Display())
	require.Equal(t, "100", num(t, "100").Display())
}

func TestCoerceNumberFromText(t *testing.T) {
	_, errVal, ok := value.CoerceNumber(value.Text("hello"))
	require.False(t, ok)
	require.True(t, errVal.IsError())
	kind, _, _ := errVal.ErrorInfo()
	require.Equal(t, value.Type, kind)

	d, _, ok := value.CoerceNumber(value.Text("5"))
	require.True(t, ok)
	require.Equal(t, "5", value.Number(d).Display())
}

func TestCoerceNumberFromBoolAndEmpty(t *testing.T) {
	d, _, ok := value.CoerceNumber(value.Bool(true))
	require.True(t, ok)
	require.Equal(t, "1", value.Number(d).Display())

	d, _, ok = value.CoerceNumber(value.Empty())
	require.True(t, ok)
	require.Equal(t, "0", value.Number(d).Display())
}

func TestCoerceTextConcatenation(t *testing.T) {
	s, _, ok := value.CoerceText(num(t, "3"))
	require.True(t, ok)
	require.Equal(t, "3", s)

	s, _, ok = value.CoerceText(value.Bool(false))
	require.True(t, ok)
	require.Equal(t, "FALSE", s)

	s, _, ok = value.CoerceText(value.Empty())
	require.True(t, ok)
	require.Equal(t, "", s)
}

func TestCompareOrdering(t *testing.T) {
	require.Equal(t, 0, value.Compare(value.Empty(), value.Empty()))
	require.True(t, value.Compare(value.Empty(), num(t, "0")) < 0)
	require.True(t, value.Compare(value.Empty(), value.Text("")) < 0)
	require.True(t, value.Compare(value.Bool(false), value.Bool(true)) < 0)
	require.True(t, value.Compare(value.Bool(true), num(t, "1")) < 0)
	require.Equal(t, 0, value.Compare(value.Text("abc"), value.Text("ABC")))
}

func TestErrorPrecedence(t *testing.T) {
	require.Equal(t, value.Parse, value.HigherPrecedence(value.Parse, value.DivZero))
	require.Equal(t, value.CircRef, value.HigherPrecedence(value.DivZero, value.CircRef))

	first, found := value.FirstError(value.Number(value.Zero()), value.Err(value.DivZero, ""), value.Err(value.BadRef, ""))
	require.True(t, found)
	kind, _, _ := first.ErrorInfo()
	require.Equal(t, value.BadRef, kind)
}

func TestDisplayStrings(t *testing.T) {
	require.Equal(t, "#DIV/0!", value.Err(value.DivZero, "").Display())
	require.Equal(t, "#VALUE!", value.Err(value.Type, "").Display())
	require.Equal(t, "#REF!", value.Err(value.BadRef, "").Display())
	require.Equal(t, "#NAME?", value.Err(value.BadName, "").Display())
	require.Equal(t, "#CIRCREF!", value.Err(value.CircRef, "").Display())
	require.Equal(t, "#ERROR!", value.Err(value.Parse, "").Display())
}
