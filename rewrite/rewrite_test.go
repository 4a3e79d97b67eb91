package rewrite_test

import (
	"testing"

	"github.com/broyeztony/sheets/rewrite"
	"github.com/stretchr/testify/require"
)

func TestShiftRelativeReference(t *testing.T) {
	require.Equal(t, "B2", rewrite.Shift("A1", 1, 1))
}

func TestShiftHonorsAbsoluteMarkersPerAxis(t *testing.T) {
	require.Equal(t, "$A$1+B2", rewrite.Shift("$A$1+A1", 1, 1))
}

func TestShiftOutOfBoundsBecomesRef(t *testing.T) {
	require.Equal(t, "#REF!", rewrite.Shift("A1", -1, 0))
}

func TestShiftPreservesWhitespaceAndOtherTokens(t *testing.T) {
	require.Equal(t, `IF(B2 > 0, "x", "y")`, rewrite.Shift(`IF(A1 > 0, "x", "y")`, 1, 1))
}

func TestShiftPreservesSheetQualifier(t *testing.T) {
	require.Equal(t, "Sheet2!B2", rewrite.Shift("Sheet2!A1", 1, 1))
}

func TestRenameUnqualifiedSheetStaysAscii(t *testing.T) {
	require.Equal(t, "Budget!A1", rewrite.Rename("Sheet1!A1", "Sheet1", "Budget"))
}

func TestRenameQuotesWhenNameNeedsIt(t *testing.T) {
	require.Equal(t, "'My Sheet'!A1", rewrite.Rename("Sheet1!A1", "Sheet1", "My Sheet"))
}

func TestRenameUnquotesWhenNoLongerNeeded(t *testing.T) {
	require.Equal(t, "Budget!A1", rewrite.Rename("'My Sheet'!A1", "My Sheet", "Budget"))
}

func TestRenameIsCaseInsensitiveOnOldName(t *testing.T) {
	require.Equal(t, "Budget!A1", rewrite.Rename("sheet1!A1", "SHEET1", "Budget"))
}

func TestRenameDoesNotTouchOtherSheets(t *testing.T) {
	require.Equal(t, "Sheet2!A1+Budget!B2", rewrite.Rename("Sheet2!A1+Sheet1!B2", "Sheet1", "Budget"))
}

func TestRenameDoesNotTouchFunctionNames(t *testing.T) {
	require.Equal(t, "IF(A1>0,1,0)", rewrite.Rename("IF(A1>0,1,0)", "IF", "Budget"))
}
