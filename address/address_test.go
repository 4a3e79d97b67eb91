package address_test

import (
	"testing"

	"github.com/broyeztony/sheets/address"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		text             string
		col, row         int
		absCol, absRow   bool
	}{
		{"A1", 1, 1, false, false},
		{"a1", 1, 1, false, false},
		{"$A$1", 1, 1, true, true},
		{"$A1", 1, 1, true, false},
		{"A$1", 1, 1, false, true},
		{"ZZZZ9999", 475254, 9999, false, false},
		{"AA15", 27, 15, false, false},
	}
	for _, c := range cases {
		a, err := address.Parse(c.text)
		require.NoError(t, err, c.text)
		require.Equal(t, c.col, a.Col, c.text)
		require.Equal(t, c.row, a.Row, c.text)
		require.Equal(t, c.absCol, a.AbsCol, c.text)
		require.Equal(t, c.absRow, a.AbsRow, c.text)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, text := range []string{"", "A", "1", "A0", "A10000", "ZZZZZ1", "A1B2", "$$A1", "A1$"} {
		_, err := address.Parse(text)
		require.Error(t, err, text)
	}
}

func TestKeyUppercases(t *testing.T) {
	require.Equal(t, "A1", address.Key(1, 1))
	require.Equal(t, "AA15", address.Key(27, 15))
}

func TestDisplayPreservesMarkers(t *testing.T) {
	a, err := address.Parse("$A$1")
	require.NoError(t, err)
	require.Equal(t, "$A$1", a.Display())

	a2, err := address.Parse("A1")
	require.NoError(t, err)
	require.Equal(t, "A1", a2.Display())
}

func TestShiftRespectsAbsoluteMarkers(t *testing.T) {
	a, _ := address.Parse("A1")
	shifted, err := address.Shift(a, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 3, shifted.Col)
	require.Equal(t, 4, shifted.Row)

	abs, _ := address.Parse("$A$1")
	shiftedAbs, err := address.Shift(abs, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 1, shiftedAbs.Col)
	require.Equal(t, 1, shiftedAbs.Row)
}

func TestShiftOutOfBounds(t *testing.T) {
	a, _ := address.Parse("A1")
	_, err := address.Shift(a, -1, 0)
	require.Error(t, err)
}
