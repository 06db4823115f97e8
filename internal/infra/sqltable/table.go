// Package sqltable provides a SQLite-backed domain.RemoteTable.
//
// Each document (collection id) holds named sheets; each sheet holds numbered rows
// of string cells stored as a JSON array. Row numbers are 1-based and contiguous.
package sqltable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id    TEXT PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheets (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id TEXT    NOT NULL,
	title       TEXT    NOT NULL,
	UNIQUE (document_id, title)
);
CREATE TABLE IF NOT EXISTS cells (
	sheet_id INTEGER NOT NULL,
	row_num  INTEGER NOT NULL,
	vals     TEXT    NOT NULL,
	PRIMARY KEY (sheet_id, row_num)
);`

// ErrSheetNotFound is returned when a sheet ref does not name a sheet of the document.
var ErrSheetNotFound = errors.New("sheet not found")

// Table implements domain.RemoteTable.
type Table struct {
	db *sql.DB
}

// Ensure Table implements domain.RemoteTable interface.
var _ domain.RemoteTable = (*Table)(nil)

// Open opens (or creates) a table database at path.
func Open(path string) (*Table, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer keeps row renumbering serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Table{db: db}, nil
}

// Close closes the database.
func (t *Table) Close() error {
	return t.db.Close()
}

// Title returns the document title. A document seen for the first time is
// created with its id as title.
func (t *Table) Title(ctx context.Context, collectionID string) (string, error) {
	if _, err := t.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents (id, title) VALUES (?, ?)`, collectionID, collectionID); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	var title string
	if err := t.db.QueryRowContext(ctx,
		`SELECT title FROM documents WHERE id = ?`, collectionID).Scan(&title); err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}
	return title, nil
}

// SetTitle renames a document, creating it if needed.
func (t *Table) SetTitle(ctx context.Context, collectionID, title string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO documents (id, title) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`, collectionID, title)
	if err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	return nil
}

// EnsureSheets creates missing sheets with their header row and returns refs in the order given.
func (t *Table) EnsureSheets(ctx context.Context, collectionID string, specs []domain.SheetSpec) ([]domain.SheetRef, error) {
	refs := make([]domain.SheetRef, 0, len(specs))
	err := t.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO documents (id, title) VALUES (?, ?)`, collectionID, collectionID); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		for _, spec := range specs {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM sheets WHERE document_id = ? AND title = ?`, collectionID, spec.Title).Scan(&id)
			if errors.Is(err, sql.ErrNoRows) {
				res, insErr := tx.ExecContext(ctx,
					`INSERT INTO sheets (document_id, title) VALUES (?, ?)`, collectionID, spec.Title)
				if insErr != nil {
					return fmt.Errorf("create sheet %q: %w", spec.Title, insErr)
				}
				if id, err = res.LastInsertId(); err != nil {
					return err
				}
				if err := putRow(ctx, tx, id, 1, spec.Header); err != nil {
					return err
				}
			} else if err != nil {
				return fmt.Errorf("find sheet %q: %w", spec.Title, err)
			}
			refs = append(refs, domain.SheetRef{Title: spec.Title, ID: id})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// GetAllRows returns every row of the sheet in row order, header included.
func (t *Table) GetAllRows(ctx context.Context, collectionID string, sheet domain.SheetRef) ([][]string, error) {
	var out [][]string
	err := t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx,
			`SELECT vals FROM cells WHERE sheet_id = ? ORDER BY row_num`, id)
		if err != nil {
			return fmt.Errorf("query rows: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			var vals []string
			if err := json.Unmarshal([]byte(raw), &vals); err != nil {
				return fmt.Errorf("decode row: %w", err)
			}
			out = append(out, vals)
		}
		return rows.Err()
	})
	return out, err
}

// AppendRow adds a row after the last one.
func (t *Table) AppendRow(ctx context.Context, collectionID string, sheet domain.SheetRef, values []string) error {
	return t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		n, err := rowCount(ctx, tx, id)
		if err != nil {
			return err
		}
		return putRow(ctx, tx, id, n+1, values)
	})
}

// OverwriteRow replaces an existing row.
func (t *Table) OverwriteRow(ctx context.Context, collectionID string, sheet domain.SheetRef, row int, values []string) error {
	return t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		n, err := rowCount(ctx, tx, id)
		if err != nil {
			return err
		}
		if row < 1 || row > n {
			return fmt.Errorf("row %d: %w", row, domain.ErrRowNotFound)
		}
		return putRow(ctx, tx, id, row, values)
	})
}

// DeleteRow removes a row and shifts later rows up.
func (t *Table) DeleteRow(ctx context.Context, collectionID string, sheet domain.SheetRef, row int) error {
	return t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM cells WHERE sheet_id = ? AND row_num = ?`, id, row)
		if err != nil {
			return fmt.Errorf("delete row: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("row %d: %w", row, domain.ErrRowNotFound)
		}
		// Renumber through negatives so the primary key never collides mid-update.
		if _, err := tx.ExecContext(ctx,
			`UPDATE cells SET row_num = -(row_num - 1) WHERE sheet_id = ? AND row_num > ?`, id, row); err != nil {
			return fmt.Errorf("shift rows: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE cells SET row_num = -row_num WHERE sheet_id = ? AND row_num < 0`, id); err != nil {
			return fmt.Errorf("shift rows: %w", err)
		}
		return nil
	})
}

// ClearAndKeepHeader removes every row and writes header as row 1.
func (t *Table) ClearAndKeepHeader(ctx context.Context, collectionID string, sheet domain.SheetRef, header []string) error {
	return t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE sheet_id = ?`, id); err != nil {
			return fmt.Errorf("clear sheet: %w", err)
		}
		return putRow(ctx, tx, id, 1, header)
	})
}

// WriteRows writes rows as a block starting at startRow. Gaps below the block are
// filled with empty rows so numbering stays contiguous.
func (t *Table) WriteRows(ctx context.Context, collectionID string, sheet domain.SheetRef, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("row %d: %w", startRow, domain.ErrRowNotFound)
	}
	return t.withTx(ctx, func(tx *sql.Tx) error {
		id, err := sheetID(ctx, tx, collectionID, sheet)
		if err != nil {
			return err
		}
		n, err := rowCount(ctx, tx, id)
		if err != nil {
			return err
		}
		for r := n + 1; r < startRow; r++ {
			if err := putRow(ctx, tx, id, r, nil); err != nil {
				return err
			}
		}
		for i, values := range rows {
			if err := putRow(ctx, tx, id, startRow+i, values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *Table) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// sheetID resolves a ref by id when set, otherwise by title.
func sheetID(ctx context.Context, tx *sql.Tx, collectionID string, ref domain.SheetRef) (int64, error) {
	var (
		id  int64
		err error
	)
	if ref.ID != 0 {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM sheets WHERE document_id = ? AND id = ?`, collectionID, ref.ID).Scan(&id)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM sheets WHERE document_id = ? AND title = ?`, collectionID, ref.Title).Scan(&id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, ref.Title)
	}
	if err != nil {
		return 0, fmt.Errorf("find sheet: %w", err)
	}
	return id, nil
}

func rowCount(ctx context.Context, tx *sql.Tx, sheetID int64) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM cells WHERE sheet_id = ?`, sheetID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

func putRow(ctx context.Context, tx *sql.Tx, sheetID int64, row int, values []string) error {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cells (sheet_id, row_num, vals) VALUES (?, ?, ?)
		ON CONFLICT(sheet_id, row_num) DO UPDATE SET vals = excluded.vals`,
		sheetID, row, string(raw))
	if err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
