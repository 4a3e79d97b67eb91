package sheets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/graph"
	"github.com/broyeztony/sheets/rewrite"
	"github.com/broyeztony/sheets/value"
)

// SetCellContents trims text and stores it; empty/whitespace-only (or
// a nil text) deletes the cell. Recompute runs synchronously
// before this call returns.
func (wb *Workbook) SetCellContents(sheetName, addrText string, text *string) error {
	sheet, err := wb.findSheet(sheetName)
	if err != nil {
		return err
	}
	a, err := address.Parse(addrText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addrText)
	}
	key := address.Key(a.Col, a.Row)
	node := graph.Node{Sheet: sheet.key, Addr: key}

	raw := ""
	if text != nil {
		raw = strings.TrimSpace(*text)
	}
	if raw == "" {
		wb.clearCellRaw(sheet, key)
	} else {
		wb.setCellRaw(sheet, key, raw)
	}
	wb.recompute([]graph.Node{node})
	return nil
}

// CellContents returns a cell's raw text and whether it is present.
func (wb *Workbook) CellContents(sheetName, addrText string) (string, bool, error) {
	sheet, err := wb.findSheet(sheetName)
	if err != nil {
		return "", false, err
	}
	a, err := address.Parse(addrText)
	if err != nil {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidAddress, addrText)
	}
	c, ok := sheet.cells[address.Key(a.Col, a.Row)]
	if !ok {
		return "", false, nil
	}
	return c.raw, true, nil
}

// CellValue returns a cell's computed value; Empty for an absent cell.
func (wb *Workbook) CellValue(sheetName, addrText string) (value.Value, error) {
	sheet, err := wb.findSheet(sheetName)
	if err != nil {
		return value.Value{}, err
	}
	a, err := address.Parse(addrText)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %q", ErrInvalidAddress, addrText)
	}
	c, ok := sheet.cells[address.Key(a.Col, a.Row)]
	if !ok {
		return value.Empty(), nil
	}
	return c.value, nil
}

// MoveCells relocates the region [topLeft, botRight] to destTopLeft
// (optionally on another sheet), clearing the source and rewriting
// every relocated formula via token-level rewriting.
func (wb *Workbook) MoveCells(sheetName, topLeft, botRight, destTopLeft, destSheet string) error {
	return wb.relocateCells(sheetName, topLeft, botRight, destTopLeft, destSheet, true)
}

// CopyCells is MoveCells without clearing the source.
func (wb *Workbook) CopyCells(sheetName, topLeft, botRight, destTopLeft, destSheet string) error {
	return wb.relocateCells(sheetName, topLeft, botRight, destTopLeft, destSheet, false)
}

func (wb *Workbook) relocateCells(sheetName, topLeftText, botRightText, destTopLeftText, destSheetName string, clearSource bool) error {
	src, err := wb.findSheet(sheetName)
	if err != nil {
		return err
	}
	tl, err := address.Parse(topLeftText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, topLeftText)
	}
	br, err := address.Parse(botRightText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, botRightText)
	}
	if tl.Col > br.Col {
		tl.Col, br.Col = br.Col, tl.Col
	}
	if tl.Row > br.Row {
		tl.Row, br.Row = br.Row, tl.Row
	}
	dtl, err := address.Parse(destTopLeftText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, destTopLeftText)
	}
	dst := src
	if destSheetName != "" {
		dst, err = wb.findSheet(destSheetName)
		if err != nil {
			return err
		}
	}

	dCol := dtl.Col - tl.Col
	dRow := dtl.Row - tl.Row
	destBotCol, destBotRow := br.Col+dCol, br.Row+dRow
	if dtl.Col < 1 || destBotCol > address.MaxCoord || dtl.Row < 1 || destBotRow > address.MaxCoord {
		return fmt.Errorf("%w: destination region out of range", ErrInvalidAddress)
	}

	type item struct {
		col, row int
		raw      string
	}
	var items []item
	for row := tl.Row; row <= br.Row; row++ {
		for col := tl.Col; col <= br.Col; col++ {
			c, ok := src.cells[address.Key(col, row)]
			if !ok {
				continue
			}
			items = append(items, item{col: col, row: row, raw: c.raw})
		}
	}

	mutated := map[graph.Node]bool{}
	if clearSource {
		for row := tl.Row; row <= br.Row; row++ {
			for col := tl.Col; col <= br.Col; col++ {
				key := address.Key(col, row)
				if wb.clearCellRaw(src, key) {
					mutated[graph.Node{Sheet: src.key, Addr: key}] = true
				}
			}
		}
	}

	for _, it := range items {
		destCol, destRow := it.col+dCol, it.row+dRow
		newRaw := it.raw
		if strings.HasPrefix(it.raw, "=") {
			newRaw = "=" + rewrite.Shift(it.raw[1:], dCol, dRow)
		}
		key := address.Key(destCol, destRow)
		wb.setCellRaw(dst, key, newRaw)
		mutated[graph.Node{Sheet: dst.key, Addr: key}] = true
	}

	out := make([]graph.Node, 0, len(mutated))
	for n := range mutated {
		out = append(out, n)
	}
	wb.recompute(out)
	return nil
}

// SortRegion reorders whole rows of [topLeft, botRight] by the given
// 1-based (within the region) column indices; a negative index sorts
// that key descending. Comparisons use the value package's total order over each
// row's currently stored value, and the sort is stable. A column index
// of 0 or outside the region's column count is ErrInvalidAddress,
// matching the original implementation's bounds check (see
// original_source/sheets/sort_handler.py).
func (wb *Workbook) SortRegion(sheetName, topLeftText, botRightText string, cols []int) error {
	sheet, err := wb.findSheet(sheetName)
	if err != nil {
		return err
	}
	tl, err := address.Parse(topLeftText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, topLeftText)
	}
	br, err := address.Parse(botRightText)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, botRightText)
	}
	if tl.Col > br.Col {
		tl.Col, br.Col = br.Col, tl.Col
	}
	if tl.Row > br.Row {
		tl.Row, br.Row = br.Row, tl.Row
	}
	colCount := br.Col - tl.Col + 1
	rowCount := br.Row - tl.Row + 1
	for _, c := range cols {
		idx := c
		if idx < 0 {
			idx = -idx
		}
		if idx < 1 || idx > colCount {
			return fmt.Errorf("%w: sort column %d outside region", ErrInvalidAddress, c)
		}
	}

	rawRows := make([][]string, rowCount)
	valRows := make([][]value.Value, rowCount)
	for r := 0; r < rowCount; r++ {
		raws := make([]string, colCount)
		vals := make([]value.Value, colCount)
		for c := 0; c < colCount; c++ {
			if cl, ok := sheet.cells[address.Key(tl.Col+c, tl.Row+r)]; ok {
				raws[c] = cl.raw
				vals[c] = cl.value
			} else {
				vals[c] = value.Empty()
			}
		}
		rawRows[r] = raws
		valRows[r] = vals
	}

	order := make([]int, rowCount)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ri, rj := order[i], order[j]
		for _, colSpec := range cols {
			idx := colSpec
			desc := false
			if idx < 0 {
				idx, desc = -idx, true
			}
			cmp := value.Compare(valRows[ri][idx-1], valRows[rj][idx-1])
			if cmp == 0 {
				continue
			}
			if desc {
				cmp = -cmp
			}
			return cmp < 0
		}
		return false
	})

	var mutated []graph.Node
	for r := 0; r < rowCount; r++ {
		src := rawRows[order[r]]
		for c := 0; c < colCount; c++ {
			key := address.Key(tl.Col+c, tl.Row+r)
			if src[c] == "" {
				wb.clearCellRaw(sheet, key)
			} else {
				wb.setCellRaw(sheet, key, src[c])
			}
			mutated = append(mutated, graph.Node{Sheet: sheet.key, Addr: key})
		}
	}
	wb.recompute(mutated)
	return nil
}
