// Package storage implements the workbook's persistence format: a
// small JSON document carrying each sheet's raw cell contents verbatim.
// Computed values are never persisted; Load recomputes
// everything itself by replaying each cell through the normal
// SetCellContents path.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/broyeztony/sheets/sheets"
)

var (
	ErrMissingKey = errors.New("storage: missing key")
	ErrWrongType  = errors.New("storage: wrong type")
)

// document mirrors the wire schema exactly:
//
//	{ "sheets": [ { "name": ..., "cell-contents": {"<ADDR>": "<raw>", ...} }, ... ] }
type document struct {
	Sheets []sheetDoc `json:"sheets"`
}

type sheetDoc struct {
	Name         string            `json:"name"`
	CellContents map[string]string `json:"cell-contents"`
}

// Save writes wb's current sheets and cell contents to w in the
// documented schema. Sheets appear in workbook order; a JSON object's
// member order is not semantic, so cell-contents keys are written in
// whatever order encoding/json's map marshaling produces (row-major
// iteration applies to the Postgres backend instead, which controls
// physical row order).
func Save(w io.Writer, wb *sheets.Workbook) error {
	doc := document{}
	for _, name := range wb.ListSheets() {
		contents, err := wb.CellContentsMap(name)
		if err != nil {
			return err
		}
		doc.Sheets = append(doc.Sheets, sheetDoc{Name: name, CellContents: contents})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Load reads a workbook from r. Missing the top-level "sheets" key is
// ErrMissingKey; a field of the wrong JSON type is ErrWrongType.
func Load(r io.Reader) (*sheets.Workbook, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("storage: decode document: %w", err)
	}
	sheetsRaw, ok := raw["sheets"]
	if !ok {
		return nil, fmt.Errorf("%w: \"sheets\"", ErrMissingKey)
	}

	var sheetList []json.RawMessage
	if err := json.Unmarshal(sheetsRaw, &sheetList); err != nil {
		return nil, fmt.Errorf("%w: \"sheets\" must be an array", ErrWrongType)
	}

	wb := sheets.NewWorkbook()
	for _, sr := range sheetList {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(sr, &fields); err != nil {
			return nil, fmt.Errorf("%w: sheet entry must be an object", ErrWrongType)
		}
		nameRaw, ok := fields["name"]
		if !ok {
			return nil, fmt.Errorf("%w: \"name\"", ErrMissingKey)
		}
		var name string
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return nil, fmt.Errorf("%w: \"name\" must be a string", ErrWrongType)
		}

		contentsRaw, ok := fields["cell-contents"]
		if !ok {
			return nil, fmt.Errorf("%w: \"cell-contents\"", ErrMissingKey)
		}
		var contents map[string]string
		if err := json.Unmarshal(contentsRaw, &contents); err != nil {
			return nil, fmt.Errorf("%w: \"cell-contents\" must be an object of strings", ErrWrongType)
		}

		if _, _, err := wb.NewSheet(name); err != nil {
			return nil, err
		}
		for addr, text := range contents {
			raw := text
			if err := wb.SetCellContents(name, addr, &raw); err != nil {
				return nil, fmt.Errorf("storage: load %s!%s: %w", name, addr, err)
			}
		}
	}
	return wb, nil
}
