// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"context"
	"database/sql"

	"github.com/sqlited/sqlited/internal/domain"
)

// ReadTx is a SHARED-lock transaction: many can be live at once against the
// same FileDB, per spec.md §3/§4.2. It owns one dedicated connection for its
// whole lifetime so SQLite's lock is actually held across statements.
type ReadTx struct {
	conn *sql.Conn
	tx   *sql.Tx
}

// BeginRead opens a read transaction. A bare BEGIN takes no lock until the
// first statement runs, so BeginRead follows it with a no-op schema read
// that acquires the SHARED lock immediately: the transaction's snapshot is
// fixed at open time, and writes committed afterwards are not visible to it.
func (f *FileDB) BeginRead(ctx context.Context) (*ReadTx, *domain.CoordinatorError) {
	conn, err := f.conn(ctx)
	if err != nil {
		return nil, errFromSQL("TxOp/ReadError/BeginError", err)
	}

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		conn.Close()
		return nil, errFromSQL("TxOp/ReadError/BeginError", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT 1 FROM sqlite_master LIMIT 0"); err != nil {
		tx.Rollback()
		conn.Close()
		return nil, errFromSQL("TxOp/ReadError/BeginError", err)
	}

	return &ReadTx{conn: conn, tx: tx}, nil
}

// Run executes stmt within the read transaction and materializes every row.
// It refuses write statements per spec.md §4.2 (QueryIsWrite).
func (t *ReadTx) Run(ctx context.Context, stmt string, args []any) (*domain.ResultSet, *domain.CoordinatorError) {
	if !domain.IsReadOnlyStatement(stmt) {
		return nil, domain.ErrQueryIsWrite()
	}

	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errFromSQL("TxOp/ReadError/RunError", err)
	}
	defer rows.Close()

	rs, cerr := scanRows(rows)
	if cerr != nil {
		return nil, cerr
	}
	rs.IsReadOnly = true
	return rs, nil
}

// Commit and Rollback both simply end a read transaction's SHARED lock;
// spec.md draws no behavioral distinction between them for reads.
func (t *ReadTx) Commit() *domain.CoordinatorError {
	defer t.conn.Close()
	if err := t.tx.Commit(); err != nil {
		return errFromSQL("TxOp/CommitError", err)
	}
	return nil
}

func (t *ReadTx) Rollback() *domain.CoordinatorError {
	defer t.conn.Close()
	if err := t.tx.Rollback(); err != nil {
		return errFromSQL("TxOp/RollbackError", err)
	}
	return nil
}

// WriteTx is the single, file-wide EXCLUSIVE-by-convention write slot; the
// coordinator's write queue (internal/coordinator/writequeue.go) is what
// actually enforces the one-at-a-time invariant, this type only carries the
// open transaction.
type WriteTx struct {
	conn *sql.Conn
}

// BeginWrite opens a write transaction with BEGIN IMMEDIATE so lock
// contention with another writer surfaces as SQLITE_BUSY immediately rather
// than at the first write statement, per spec.md §4.3/§9.
func (f *FileDB) BeginWrite(ctx context.Context) (*WriteTx, *domain.CoordinatorError) {
	conn, err := f.conn(ctx)
	if err != nil {
		return nil, errFromSQL("TxOp/WriteError/BeginError", err)
	}

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		conn.Close()
		return nil, errFromSQL("TxOp/WriteError/BeginError", err)
	}

	return &WriteTx{conn: conn}, nil
}

// Run executes stmt within the write transaction. Both read and write
// statements are permitted (spec.md §4.3 allows interleaved reads inside a
// write transaction); an INSERT, UPDATE or DELETE also sets RowsChanged.
func (t *WriteTx) Run(ctx context.Context, stmt string, args []any) (*domain.ResultSet, *domain.CoordinatorError) {
	if domain.IsReadOnlyStatement(stmt) {
		rows, err := t.conn.QueryContext(ctx, stmt, args...)
		if err != nil {
			return nil, errFromSQL("TxOp/WriteBindRunError/BindRunError/RunError", err)
		}
		defer rows.Close()

		rs, cerr := scanRows(rows)
		if cerr != nil {
			return nil, cerr
		}
		rs.IsReadOnly = true
		return rs, nil
	}

	res, err := t.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, errFromSQL("TxOp/WriteBindRunError/BindRunError/RunError", err)
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return nil, errFromSQL("TxOp/WriteBindRunError/BindRunError/RunError", err)
	}

	rs := &domain.ResultSet{IsIUD: domain.IsIUDStatement(stmt)}
	if rs.IsIUD {
		rs.RowsChanged = &changed
	}
	return rs, nil
}

func (t *WriteTx) Commit() *domain.CoordinatorError {
	defer t.conn.Close()
	if _, err := t.conn.ExecContext(context.Background(), "COMMIT"); err != nil {
		return errFromSQL("TxOp/CommitError", err)
	}
	return nil
}

func (t *WriteTx) Rollback() *domain.CoordinatorError {
	defer t.conn.Close()
	if _, err := t.conn.ExecContext(context.Background(), "ROLLBACK"); err != nil {
		return errFromSQL("TxOp/RollbackError", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) (*domain.ResultSet, *domain.CoordinatorError) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, errFromSQL("TxOp/ReadError/RunError", err)
	}
	// database/sql doesn't expose the source-table column name separately
	// from a SELECT alias, so origin mirrors name.
	cols := make([]domain.Column, len(colNames))
	for i, name := range colNames {
		cols[i] = domain.Column{Name: name, Origin: name}
	}

	var out [][]domain.Val
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errFromSQL("TxOp/ReadError/RunError", err)
		}
		row := make([]domain.Val, len(dest))
		for i, d := range dest {
			row[i] = domain.FromDriver(*(d.(*any)))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errFromSQL("TxOp/ReadError/RunError", err)
	}

	return &domain.ResultSet{Columns: cols, Rows: out}, nil
}
