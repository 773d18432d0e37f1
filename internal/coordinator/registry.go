// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package coordinator implements the transaction coordinator: the
// single-threaded event loop that mediates between concurrent client
// messages and SQLite's one-writer-per-file concurrency contract. It is the
// core of this module, per spec.md §1.
package coordinator

import (
	"github.com/sqlited/sqlited/internal/domain"
	"github.com/sqlited/sqlited/internal/driver"
)

// txKind records whether a minted TxId names a read or write transaction,
// so get/remove can route without the caller naming the file (spec.md §4.2).
type txKind int

const (
	txKindRead txKind = iota
	txKindWrite
)

type txLocation struct {
	file domain.FilePath
	kind txKind
}

// fileState is spec.md §3's PerFileState: one per FilePath, created on first
// touch and retained for the process lifetime.
type fileState struct {
	db    *driver.FileDB
	reads map[domain.TxId]*driver.ReadTx
	queue writeQueue
}

func newFileState(db *driver.FileDB) *fileState {
	return &fileState{db: db, reads: make(map[domain.TxId]*driver.ReadTx)}
}

// registry is the coordinator's exclusive owner of every live ReadTx/WriteTx
// handle (spec.md §3 "Ownership"). It is only ever touched from the worker
// goroutine, so it carries no locking of its own.
type registry struct {
	files  map[domain.FilePath]*fileState
	byTxId map[domain.TxId]txLocation
}

func newRegistry() *registry {
	return &registry{
		files:  make(map[domain.FilePath]*fileState),
		byTxId: make(map[domain.TxId]txLocation),
	}
}

// fileFor returns the PerFileState for path, opening the underlying file on
// first touch.
func (r *registry) fileFor(path domain.FilePath) (*fileState, *domain.CoordinatorError) {
	if fs, ok := r.files[path]; ok {
		return fs, nil
	}
	db, err := driver.Open(path.String())
	if err != nil {
		return nil, err
	}
	fs := newFileState(db)
	r.files[path] = fs
	return fs, nil
}

func (r *registry) addRead(path domain.FilePath, id domain.TxId, tx *driver.ReadTx) {
	fs := r.files[path]
	fs.reads[id] = tx
	r.byTxId[id] = txLocation{file: path, kind: txKindRead}
}

// getRead looks up a live ReadTx by id.
func (r *registry) getRead(id domain.TxId) (*driver.ReadTx, bool) {
	loc, ok := r.byTxId[id]
	if !ok || loc.kind != txKindRead {
		return nil, false
	}
	fs := r.files[loc.file]
	tx, ok := fs.reads[id]
	return tx, ok
}

// getWrite looks up the live WriteTx by id, if id currently names the
// file's active writer.
func (r *registry) getWrite(id domain.TxId) (*driver.WriteTx, bool) {
	loc, ok := r.byTxId[id]
	if !ok || loc.kind != txKindWrite {
		return nil, false
	}
	fs := r.files[loc.file]
	if fs.queue.state != wqActive || fs.queue.activeTxId != id {
		return nil, false
	}
	return fs.queue.activeTx, true
}

// removeRead deletes a finished read transaction from the registry,
// returning its handle so the caller can still issue the terminal
// COMMIT/ROLLBACK statement (spec.md §9: removal happens before the
// terminal statement).
func (r *registry) removeRead(id domain.TxId) (*driver.ReadTx, domain.FilePath, bool) {
	loc, ok := r.byTxId[id]
	if !ok || loc.kind != txKindRead {
		return nil, "", false
	}
	fs := r.files[loc.file]
	tx, ok := fs.reads[id]
	if !ok {
		return nil, "", false
	}
	delete(fs.reads, id)
	delete(r.byTxId, id)
	return tx, loc.file, true
}

// removeWrite deletes the active write transaction from the registry,
// returning its handle. The write queue's own state is left untouched here;
// the caller drives its transition after the terminal statement runs
// (internal/coordinator/writequeue.go).
func (r *registry) removeWrite(id domain.TxId) (*driver.WriteTx, domain.FilePath, bool) {
	loc, ok := r.byTxId[id]
	if !ok || loc.kind != txKindWrite {
		return nil, "", false
	}
	fs := r.files[loc.file]
	if fs.queue.state != wqActive || fs.queue.activeTxId != id {
		return nil, "", false
	}
	tx := fs.queue.activeTx
	delete(r.byTxId, id)
	return tx, loc.file, true
}

// bindWrite installs a freshly-acquired WriteTx as the active writer for
// path and indexes it by id.
func (r *registry) bindWrite(path domain.FilePath, id domain.TxId, tx *driver.WriteTx) {
	fs := r.files[path]
	fs.queue.state = wqActive
	fs.queue.activeTxId = id
	fs.queue.activeTx = tx
	r.byTxId[id] = txLocation{file: path, kind: txKindWrite}
}

// closeAll tears down every live transaction's connection, releasing all
// locks, as coordinator shutdown requires (spec.md §4.4 "Break").
func (r *registry) closeAll() {
	for _, fs := range r.files {
		for _, tx := range fs.reads {
			tx.Rollback()
		}
		if fs.queue.state == wqActive && fs.queue.activeTx != nil {
			fs.queue.activeTx.Rollback()
		}
		fs.db.Close()
	}
}
