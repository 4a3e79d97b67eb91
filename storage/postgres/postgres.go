// Package postgres is the Postgres mirror of the storage package's JSON
// format: the same logical rows (sheet name, address, raw contents),
// persisted into a sheet_cells table via a pgxpool.Pool instead of an
// io.Writer. Save replaces a workbook's rows wholesale inside one
// transaction; Load replays them back through SetCellContents the same
// way storage.Load does.
package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/broyeztony/sheets/address"
	"github.com/broyeztony/sheets/sheets"
)

// Schema creates the sheet_cells table if it does not already exist.
// Callers run this once at startup; Save and Load both assume it exists.
const Schema = `
CREATE TABLE IF NOT EXISTS sheet_cells (
	sheet_order  INTEGER NOT NULL,
	sheet_name   TEXT    NOT NULL,
	addr         TEXT    NOT NULL,
	raw_contents TEXT    NOT NULL,
	PRIMARY KEY (sheet_order, addr)
)`

// EnsureSchema runs Schema against pool. Safe to call repeatedly.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Save replaces every row in sheet_cells with wb's current sheets and
// cell contents, in one transaction. Rows are inserted in sheet order,
// then row-major (row, col) within a sheet — the genuine row-major
// ordering a row-major save format asks for, which a JSON object's key order can't express.
func Save(ctx context.Context, pool *pgxpool.Pool, wb *sheets.Workbook) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sheet_cells`); err != nil {
		return fmt.Errorf("postgres: clear sheet_cells: %w", err)
	}

	rows := make([][]any, 0)
	for order, name := range wb.ListSheets() {
		contents, err := wb.CellContentsMap(name)
		if err != nil {
			return err
		}
		addrs := make([]string, 0, len(contents))
		for addr := range contents {
			addrs = append(addrs, addr)
		}
		sort.Slice(addrs, func(i, j int) bool {
			ai, _ := address.Parse(addrs[i])
			aj, _ := address.Parse(addrs[j])
			if ai.Row != aj.Row {
				return ai.Row < aj.Row
			}
			return ai.Col < aj.Col
		})
		for _, addr := range addrs {
			rows = append(rows, []any{order, name, addr, contents[addr]})
		}
	}

	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"sheet_cells"},
			[]string{"sheet_order", "sheet_name", "addr", "raw_contents"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("postgres: copy sheet_cells: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Load rebuilds a workbook from sheet_cells, restoring sheets in
// sheet_order and replaying each cell through SetCellContents.
func Load(ctx context.Context, pool *pgxpool.Pool) (*sheets.Workbook, error) {
	rows, err := pool.Query(ctx, `
		SELECT sheet_order, sheet_name, addr, raw_contents
		FROM sheet_cells
		ORDER BY sheet_order, addr`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query sheet_cells: %w", err)
	}
	defer rows.Close()

	type cellRow struct {
		order int
		name  string
		addr  string
		raw   string
	}
	var loaded []cellRow
	for rows.Next() {
		var r cellRow
		if err := rows.Scan(&r.order, &r.name, &r.addr, &r.raw); err != nil {
			return nil, fmt.Errorf("postgres: scan sheet_cells row: %w", err)
		}
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate sheet_cells: %w", err)
	}

	wb := sheets.NewWorkbook()
	seen := map[int]bool{}
	order := []int{}
	names := map[int]string{}
	for _, r := range loaded {
		if !seen[r.order] {
			seen[r.order] = true
			order = append(order, r.order)
			names[r.order] = r.name
		}
	}
	sort.Ints(order)
	for _, o := range order {
		if _, _, err := wb.NewSheet(names[o]); err != nil {
			return nil, err
		}
	}
	for _, r := range loaded {
		raw := r.raw
		if err := wb.SetCellContents(names[r.order], r.addr, &raw); err != nil {
			return nil, fmt.Errorf("postgres: load %s!%s: %w", names[r.order], r.addr, err)
		}
	}
	return wb, nil
}
