// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "strings"

// Column describes one result column. The driver adapter cannot read a
// column's source-table name, so it fills Origin with the same value as Name
// (for an aliased SELECT column, both hold the alias).
type Column struct {
	Name   string
	Origin string
}

// ResultSet is produced by every successful statement per spec.md §4.6.
type ResultSet struct {
	IsReadOnly  bool
	IsIUD       bool
	RowsChanged *int64 // present iff IsIUD
	Columns     []Column
	Rows        [][]Val
}

func (r *ResultSet) RowCount() int    { return len(r.Rows) }
func (r *ResultSet) ColumnCount() int { return len(r.Columns) }

// IsIUDStatement reports whether the SQL text, trimmed and lowercased,
// begins with insert, update or delete - the literal rule from spec.md §4.6.
func IsIUDStatement(sql string) bool {
	s := strings.ToLower(strings.TrimSpace(sql))
	return strings.HasPrefix(s, "insert") || strings.HasPrefix(s, "update") || strings.HasPrefix(s, "delete")
}

// IsReadOnlyStatement classifies a statement as read-only using the same
// trimmed/lowercased textual heuristic spec.md §4.6 prescribes for IUD
// detection. The driver adapter's real primitive for this is
// sqlite3_stmt_readonly(), but modernc.org/sqlite does not surface it (or
// any other libc-level handle) through database/sql - its *sql.Stmt keeps
// the prepared statement behind an unexported type and reports
// NumInput() == -1 unconditionally, so there is no stmt handle left to ask.
// This prefix check is therefore a documented, accepted approximation, not a
// design choice: it misclassifies write-pragmas (e.g. "PRAGMA
// journal_mode=WAL", for which sqlite3_stmt_readonly would return false) as
// read-only. See DESIGN.md's internal/driver entry.
func IsReadOnlyStatement(sql string) bool {
	s := strings.ToLower(strings.TrimSpace(sql))
	for _, p := range []string{"insert", "update", "delete", "replace", "upsert", "create", "drop", "alter", "attach", "detach", "vacuum", "reindex"} {
		if strings.HasPrefix(s, p) {
			return false
		}
	}
	return true
}
