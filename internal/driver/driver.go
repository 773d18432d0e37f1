// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package driver adapts modernc.org/sqlite to the narrow contract the
// transaction coordinator consumes: open, begin_read, begin_write, prepare,
// bind, run, commit, rollback, and return-code classification (spec.md
// §4.1/§6.4). It is the only package in this module that imports
// modernc.org/sqlite directly.
package driver

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/sqlited/sqlited/internal/domain"
)

// FileDB owns the connection pool backing one FilePath. Callers draw a
// dedicated *sql.Conn per live transaction (spec.md's Non-goal: no read-path
// pooling beyond one connection per live transaction) by calling BeginRead
// or BeginWrite; FileDB itself is retained for the process lifetime once a
// FilePath is first touched, matching spec.md §3.
type FileDB struct {
	path string
	pool *sql.DB
}

// Open opens (or re-opens) the SQLite file at path. The parent directory
// must already exist; the file itself need not.
func Open(path string) (*FileDB, *domain.CoordinatorError) {
	registerConnectionHook()

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil, domain.ErrFileDirectoryDoesNotExist(path)
	}

	pool, err := sql.Open("sqlite", path)
	if err != nil {
		rc := classify(err)
		return nil, domain.ErrFileReturnStatus(rc.Status, err.Error())
	}

	// Every live transaction gets its own dedicated connection; the pool
	// exists only to vend them and to run one-off maintenance statements.
	pool.SetMaxIdleConns(4)

	return &FileDB{path: path, pool: pool}, nil
}

// Close releases the underlying connection pool. Coordinator shutdown calls
// this once read/write transactions for the file have already been torn
// down.
func (f *FileDB) Close() error {
	return f.pool.Close()
}

func (f *FileDB) conn(ctx context.Context) (*sql.Conn, error) {
	return f.pool.Conn(ctx)
}

// errFromSQL wraps a bare SQL error with the coordinator's error taxonomy,
// tagging it with errType for callers that know which operation failed.
func errFromSQL(errType string, err error) *domain.CoordinatorError {
	rc := classify(err)
	return domain.ErrDriverReturnStatus(errType, rc.Status, rc.Message, rc.Busy)
}
