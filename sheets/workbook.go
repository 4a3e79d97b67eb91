// Package sheets is the workbook orchestrator: the public API,
// the sheet and cell store, and the Recompute pipeline that ties
// the parser, reference extractor, dependency graph, and evaluator
// together. It is not safe for concurrent use — callers that share a
// *Workbook across goroutines (the transport package's websocket
// handler, for instance) take their own lock around every mutating
// call.
package sheets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/graph"
	"github.com/broyeztony/sheets/rewrite"
)

const engineVersion = "1.0.0"

var sheetNamePattern = regexp.MustCompile(`^[A-Za-z0-9 .?!,:;@#$%^&*()\-_]+$`)

// sheetState is one sheet: its display name, its casefolded lookup
// key, and its sparse cell store keyed by canonical address text
// (address.Key's uppercase, marker-free form).
type sheetState struct {
	displayName string
	key         string
	cells       map[string]*cell
}

// ChangedCell identifies one cell whose stored value changed during a
// Recompute pass.
type ChangedCell struct {
	Sheet string
	Addr  string
}

// Workbook is an ordered collection of sheets plus the dependency
// graph tying their formulas together. The zero Workbook is not
// usable; construct with NewWorkbook.
type Workbook struct {
	sheets    []*sheetState
	byKey     map[string]*sheetState
	graph     *graph.Graph
	observers []func(*Workbook, []ChangedCell)
}

func NewWorkbook() *Workbook {
	return &Workbook{
		byKey: map[string]*sheetState{},
		graph: graph.New(),
	}
}

func (wb *Workbook) NumSheets() int { return len(wb.sheets) }

// ListSheets returns sheet display names in their current order. The
// returned slice is a fresh copy the caller may mutate freely.
func (wb *Workbook) ListSheets() []string {
	out := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		out[i] = s.displayName
	}
	return out
}

func (wb *Workbook) findSheet(name string) (*sheetState, error) {
	s, ok := wb.byKey[casefoldName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", ErrNotFound, name)
	}
	return s, nil
}

func (wb *Workbook) sheetPos(s *sheetState) int {
	for i, cur := range wb.sheets {
		if cur == s {
			return i
		}
	}
	return -1
}

// sheetIndex returns the current display position of the sheet with
// the given key, or -1 if no such sheet exists. Used for the
// (sheet-insertion-order, row, col) tie-break; "insertion
// order" tracks wherever a sheet currently sits, so MoveSheet changes
// it, matching move-sheet's documented effect on notification order.
func (wb *Workbook) sheetIndex(key string) int {
	for i, s := range wb.sheets {
		if s.key == key {
			return i
		}
	}
	return -1
}

func validateSheetName(name string) error {
	if name == "" || strings.TrimSpace(name) != name || !sheetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// NewSheet appends a new sheet. An empty name auto-assigns "SheetN"
// using the lowest unused N.
func (wb *Workbook) NewSheet(name string) (int, string, error) {
	if name == "" {
		name = wb.nextAutoName()
	} else if err := validateSheetName(name); err != nil {
		return 0, "", err
	}
	key := casefoldName(name)
	if _, exists := wb.byKey[key]; exists {
		return 0, "", fmt.Errorf("%w: sheet %q", ErrDuplicate, name)
	}
	s := &sheetState{displayName: name, key: key, cells: map[string]*cell{}}
	wb.sheets = append(wb.sheets, s)
	wb.byKey[key] = s
	return len(wb.sheets) - 1, name, nil
}

func (wb *Workbook) nextAutoName() string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("Sheet%d", n)
		if _, exists := wb.byKey[casefoldName(candidate)]; !exists {
			return candidate
		}
	}
}

// DeleteSheet removes a sheet. Every cell that referenced it recomputes
// to Error(BadRef).
func (wb *Workbook) DeleteSheet(name string) error {
	s, err := wb.findSheet(name)
	if err != nil {
		return err
	}
	key := s.key
	referrers := wb.graph.ReferrersWhere(func(n graph.Node) bool { return n.Sheet == key })

	for addr := range s.cells {
		wb.graph.RemoveNode(graph.Node{Sheet: key, Addr: addr})
	}
	wb.sheets = append(wb.sheets[:wb.sheetPos(s)], wb.sheets[wb.sheetPos(s)+1:]...)
	delete(wb.byKey, key)

	mutated := make([]graph.Node, 0, len(referrers))
	for n := range referrers {
		mutated = append(mutated, n)
	}
	wb.recompute(mutated)
	return nil
}

// RenameSheet validates newName, rewrites every referring formula at
// the token level, and recomputes the affected cells.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	s, err := wb.findSheet(oldName)
	if err != nil {
		return err
	}
	if err := validateSheetName(newName); err != nil {
		return err
	}
	newKey := casefoldName(newName)
	if newKey != s.key {
		if _, exists := wb.byKey[newKey]; exists {
			return fmt.Errorf("%w: sheet %q", ErrDuplicate, newName)
		}
	}

	oldKey, oldDisplayName := s.key, s.displayName
	type target struct {
		sheet *sheetState
		addr  string
	}
	var referrerCells []target
	for n := range wb.graph.ReferrersWhere(func(n graph.Node) bool { return n.Sheet == oldKey }) {
		owner := wb.byKey[n.Sheet]
		if owner == nil {
			continue
		}
		referrerCells = append(referrerCells, target{sheet: owner, addr: n.Addr})
	}

	for _, t := range referrerCells {
		wb.rewriteFormulaSheetRef(t.sheet, t.addr, oldDisplayName, newName)
	}

	s.displayName = newName
	delete(wb.byKey, oldKey)
	s.key = newKey
	wb.byKey[newKey] = s
	wb.graph.RenameSheetKey(oldKey, newKey)

	mutated := make([]graph.Node, 0, len(referrerCells))
	for _, t := range referrerCells {
		mutated = append(mutated, graph.Node{Sheet: t.sheet.key, Addr: t.addr})
	}
	wb.recompute(mutated)
	return nil
}

// MoveSheet reorders sheets; it changes no cell value, so no recompute
// runs, only the notification tie-break order it feeds.
func (wb *Workbook) MoveSheet(name string, index int) error {
	s, err := wb.findSheet(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(wb.sheets) {
		return fmt.Errorf("%w: index %d", ErrIndexOutOfRange, index)
	}
	cur := wb.sheetPos(s)
	wb.sheets = append(wb.sheets[:cur], wb.sheets[cur+1:]...)
	tail := append([]*sheetState{s}, wb.sheets[index:]...)
	wb.sheets = append(wb.sheets[:index], tail...)
	return nil
}

// CopySheet appends a deep copy of name's raw contents under
// "{orig}_{k}", the smallest unused k >= 1, and recomputes every cell
// of the copy from scratch — the mutation set is every cell of the copy.
func (wb *Workbook) CopySheet(name string) (int, string, error) {
	src, err := wb.findSheet(name)
	if err != nil {
		return 0, "", err
	}
	newName := wb.nextCopyName(src.displayName)
	key := casefoldName(newName)
	dst := &sheetState{displayName: newName, key: key, cells: map[string]*cell{}}
	for addr, c := range src.cells {
		dst.cells[addr] = parseContents(c.raw)
	}
	wb.sheets = append(wb.sheets, dst)
	wb.byKey[key] = dst

	mutated := make([]graph.Node, 0, len(dst.cells))
	for addr := range dst.cells {
		mutated = append(mutated, graph.Node{Sheet: key, Addr: addr})
	}
	wb.recompute(mutated)
	return len(wb.sheets) - 1, newName, nil
}

func (wb *Workbook) nextCopyName(orig string) string {
	for k := 1; ; k++ {
		candidate := fmt.Sprintf("%s_%d", orig, k)
		if _, exists := wb.byKey[casefoldName(candidate)]; !exists {
			return candidate
		}
	}
}

// SheetExtent reports the smallest (cols, rows) bounding box covering
// every non-empty cell, computed on demand from the key set.
func (wb *Workbook) SheetExtent(name string) (int, int, error) {
	s, err := wb.findSheet(name)
	if err != nil {
		return 0, 0, err
	}
	cols, rows := 0, 0
	for addr := range s.cells {
		a, err := address.Parse(addr)
		if err != nil {
			continue
		}
		if a.Col > cols {
			cols = a.Col
		}
		if a.Row > rows {
			rows = a.Row
		}
	}
	return cols, rows, nil
}

// CellContentsMap returns every non-empty cell on the sheet as
// addr -> raw contents, for use by the storage package's save path.
// Iteration order is unspecified; callers that need row-major order
// (row-major, for save/export) sort the result themselves.
func (wb *Workbook) CellContentsMap(name string) (map[string]string, error) {
	s, err := wb.findSheet(name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(s.cells))
	for addr, c := range s.cells {
		out[addr] = c.raw
	}
	return out, nil
}

// rewriteFormulaSheetRef rewrites sheet's formula at addr under a
// sheet rename, replacing the old qualifier with the new one, then
// reparses it in place. Non-formula cells are left untouched.
func (wb *Workbook) rewriteFormulaSheetRef(sheet *sheetState, addr, oldName, newName string) {
	c, ok := sheet.cells[addr]
	if !ok || !c.isFormula {
		return
	}
	wb.setCellRaw(sheet, addr, "="+rewrite.Rename(c.raw[1:], oldName, newName))
}
