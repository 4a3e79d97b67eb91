package sheets

import (
	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/graph"
	"github.com/broyeztony/sheets/refs"
	"github.com/broyeztony/sheets/value"
)

// evalView is the narrow eval.EvalContext a single cell's evaluation
// sees: its owning sheet (for resolving unqualified references) and
// read-only access to the rest of the workbook.
type evalView struct {
	wb    *Workbook
	owner string // owning sheet's display name, as the evaluator sees it
}

func (v *evalView) OwningSheetName() string { return v.owner }
func (v *evalView) EngineVersion() string   { return engineVersion }

// GetValue resolves a (possibly nil, meaning "owning sheet") sheet
// name and address text to a value: Error(BadRef) for an unknown
// sheet or an address that fails to parse, Empty for a valid address
// with no stored cell, otherwise the cell's current value.
func (v *evalView) GetValue(sheetName *string, addr string) value.Value {
	key := casefoldName(v.owner)
	if sheetName != nil {
		key = casefoldName(*sheetName)
	}
	s, ok := v.wb.byKey[key]
	if !ok {
		return value.Err(value.BadRef, "unknown sheet")
	}
	a, err := address.Parse(addr)
	if err != nil {
		return value.Err(value.BadRef, "invalid address")
	}
	c, ok := s.cells[address.Key(a.Col, a.Row)]
	if !ok {
		return value.Empty()
	}
	return c.value
}

// setCellRaw stores raw (already trimmed, non-empty) at addr on sheet,
// replacing whatever cell was there but keeping that cell's last value,
// so recompute can tell whether the value actually changed. It does not
// touch the graph or recompute anything — callers batch mutations and
// call recompute once.
func (wb *Workbook) setCellRaw(sheet *sheetState, addr, raw string) {
	c := parseContents(raw)
	if old, ok := sheet.cells[addr]; ok {
		c.value = old.value
	}
	sheet.cells[addr] = c
}

// clearCellRaw removes addr from sheet, reporting whether a cell was
// actually present.
func (wb *Workbook) clearCellRaw(sheet *sheetState, addr string) bool {
	if _, ok := sheet.cells[addr]; !ok {
		return false
	}
	delete(sheet.cells, addr)
	return true
}

// toGraphNodes canonicalizes a reference's address text through
// address.Parse so that "A1", "a1", and "$A$1" all resolve to the same
// graph node regardless of how each formula happened to write it; an
// unparsable address (out of range, malformed) keeps its raw text as a
// key that can never collide with a real cell, which is fine since
// nothing will ever target it except to read Error(BadRef).
func (wb *Workbook) toGraphNodes(rs []refs.Ref) []graph.Node {
	out := make([]graph.Node, 0, len(rs))
	for _, r := range rs {
		key := r.Addr
		if a, err := address.Parse(r.Addr); err == nil {
			key = address.Key(a.Col, a.Row)
		}
		out = append(out, graph.Node{Sheet: r.Sheet, Addr: key})
	}
	return out
}

// syncOutEdges re-derives node's out-edges from whatever cell is
// currently stored there (or clears them if the cell is gone or not a
// formula). The cell's AST was already produced by parseContents at
// write time; this only (re-)extracts its references.
func (wb *Workbook) syncOutEdges(node graph.Node) {
	sheet := wb.byKey[node.Sheet]
	if sheet == nil {
		wb.graph.SetOutEdges(node, nil)
		return
	}
	c, ok := sheet.cells[node.Addr]
	if !ok || !c.isFormula || c.expr == nil {
		wb.graph.SetOutEdges(node, nil)
		return
	}
	rs := refs.Extract(c.expr, node.Sheet, casefoldName)
	wb.graph.SetOutEdges(node, wb.toGraphNodes(rs))
}

// recompute runs the full dependency-graph-rebuild-and-evaluate pipeline given the just-mutated
// nodes M: update their out-edges, find everyone reachable from them
// on the reverse graph, mark cycles as Error(CircRef), evaluate the
// acyclic remainder in dependency order, and notify observers of every
// cell whose stored value actually changed.
func (wb *Workbook) recompute(mutated []graph.Node) {
	if len(mutated) == 0 {
		return
	}
	for _, n := range mutated {
		wb.syncOutEdges(n)
	}

	r := wb.graph.ReachableFrom(mutated, graph.Reverse)

	cyclic := map[graph.Node]bool{}
	for _, comp := range wb.graph.SCC(r, wb.nodeLess) {
		if len(comp) > 1 {
			for _, n := range comp {
				cyclic[n] = true
			}
			continue
		}
		if len(comp) == 1 && wb.graph.HasSelfLoop(comp[0]) {
			cyclic[comp[0]] = true
		}
	}

	acyclic := map[graph.Node]bool{}
	for n := range r {
		if !cyclic[n] {
			acyclic[n] = true
		}
	}

	var changed []ChangedCell
	for n := range cyclic {
		if sheet := wb.byKey[n.Sheet]; sheet != nil && wb.storeValue(n, value.Err(value.CircRef, "")) {
			changed = append(changed, ChangedCell{Sheet: sheet.displayName, Addr: n.Addr})
		}
	}

	order := wb.graph.Toposort(acyclic, wb.nodeLess)
	for _, n := range order {
		sheet := wb.byKey[n.Sheet]
		if sheet == nil {
			continue
		}
		c, ok := sheet.cells[n.Addr]
		if !ok {
			continue
		}
		view := &evalView{wb: wb, owner: sheet.displayName}
		v := computeValue(c, view)
		if wb.storeValue(n, v) {
			changed = append(changed, ChangedCell{Sheet: sheet.displayName, Addr: n.Addr})
		}
	}

	if len(changed) == 0 {
		return
	}
	wb.sortChanged(changed)
	wb.notify(changed)
}

// sortChanged orders changed cells by the same tie-break used for
// evaluation order, so observer notifications are deterministic.
func (wb *Workbook) sortChanged(changed []ChangedCell) {
	less := func(i, j int) bool {
		return wb.nodeLess(
			graph.Node{Sheet: casefoldName(changed[i].Sheet), Addr: changed[i].Addr},
			graph.Node{Sheet: casefoldName(changed[j].Sheet), Addr: changed[j].Addr},
		)
	}
	for i := 1; i < len(changed); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			changed[j], changed[j-1] = changed[j-1], changed[j]
		}
	}
}

// storeValue writes v into the cell at n, reporting whether it
// differs from what was stored before.
func (wb *Workbook) storeValue(n graph.Node, v value.Value) bool {
	sheet := wb.byKey[n.Sheet]
	if sheet == nil {
		return false
	}
	c, ok := sheet.cells[n.Addr]
	if !ok {
		return false
	}
	if c.value.Equal(v) {
		return false
	}
	c.value = v
	return true
}

// nodeLess implements the tie-break: (sheet-insertion-order, row,
// col), falling back to address text for anything that fails to parse.
func (wb *Workbook) nodeLess(a, b graph.Node) bool {
	ia, ib := wb.sheetIndex(a.Sheet), wb.sheetIndex(b.Sheet)
	if ia != ib {
		return ia < ib
	}
	aa, aerr := address.Parse(a.Addr)
	bb, berr := address.Parse(b.Addr)
	if aerr == nil && berr == nil {
		if aa.Row != bb.Row {
			return aa.Row < bb.Row
		}
		if aa.Col != bb.Col {
			return aa.Col < bb.Col
		}
	}
	return a.Addr < b.Addr
}
