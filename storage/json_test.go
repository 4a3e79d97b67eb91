package storage_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/broyeztony/sheets/sheets"
	"github.com/broyeztony/sheets/storage"
	"github.com/broyeztony/sheets/value"
)

func text(s string) *string { return &s }

func newWorkbook(t *testing.T) *sheets.Workbook {
	t.Helper()
	wb := sheets.NewWorkbook()
	_, _, err := wb.NewSheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, wb.SetCellContents("Sheet1", "A1", text("5")))
	require.NoError(t, wb.SetCellContents("Sheet1", "A2", text("=A1*2")))
	require.NoError(t, wb.SetCellContents("Sheet1", "B1", text("'quoted")))
	return wb
}

func TestSaveLoadRoundTrip(t *testing.T) {
	wb := newWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, storage.Save(&buf, wb))

	loaded, err := storage.Load(&buf)
	require.NoError(t, err)

	require.Equal(t, []string{"Sheet1"}, loaded.ListSheets())

	v, err := loaded.CellValue("Sheet1", "A2")
	require.NoError(t, err)
	require.Equal(t, value.NumberKind, v.Kind())
	require.Equal(t, "10", v.Display())

	raw, ok, err := loaded.CellContents("Sheet1", "B1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "'quoted", raw)
}

func TestSaveWritesRawContentsNotComputedValues(t *testing.T) {
	wb := newWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, storage.Save(&buf, wb))
	require.Contains(t, buf.String(), `"=A1*2"`)
	require.NotContains(t, buf.String(), `"10"`)
}

func TestLoadMissingSheetsKey(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{}`))
	require.ErrorIs(t, err, storage.ErrMissingKey)
}

func TestLoadSheetsWrongType(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{"sheets": "nope"}`))
	require.ErrorIs(t, err, storage.ErrWrongType)
}

func TestLoadSheetEntryMissingName(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{"sheets": [{"cell-contents": {}}]}`))
	require.ErrorIs(t, err, storage.ErrMissingKey)
}

func TestLoadSheetEntryMissingCellContents(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{"sheets": [{"name": "Sheet1"}]}`))
	require.ErrorIs(t, err, storage.ErrMissingKey)
}

func TestLoadCellContentsWrongType(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{"sheets": [{"name": "Sheet1", "cell-contents": [1,2]}]}`))
	require.ErrorIs(t, err, storage.ErrWrongType)
}

func TestLoadNameWrongType(t *testing.T) {
	_, err := storage.Load(strings.NewReader(`{"sheets": [{"name": 5, "cell-contents": {}}]}`))
	require.ErrorIs(t, err, storage.ErrWrongType)
}
