// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import (
	"context"

	"github.com/sqlited/sqlited/internal/domain"
)

// run is the single consumer of the MPSC input channel (spec.md §4.4). It is
// the only goroutine that ever touches the registry or the driver adapter.
func (c *Coordinator) run() {
	defer c.wg.Done()
	for j := range c.in {
		if _, ok := j.(breakJob); ok {
			c.reg.closeAll()
			return
		}
		c.handle(j)
	}
}

func (c *Coordinator) handle(j job) {
	switch v := j.(type) {
	case openReadJob:
		c.handleOpenRead(v)
	case openWriteJob:
		c.handleOpenWrite(v)
	case retryJob:
		c.handleRetry(v)
	case txOpJob:
		c.handleTxOp(v)
	case txEndJob:
		c.handleTxEnd(v)
	}
}

func (c *Coordinator) handleOpenRead(j openReadJob) {
	fs, err := c.reg.fileFor(j.file)
	if err != nil {
		c.reply(domain.ErrReply(j.msgId, err))
		return
	}

	tx, err := fs.db.BeginRead(context.Background())
	if err != nil {
		c.reply(domain.ErrReply(j.msgId, err))
		return
	}

	id := domain.NewTxId()
	c.reg.addRead(j.file, id, tx)
	c.reply(domain.OkTxId(j.msgId, id))
}

// handleOpenWrite implements spec.md §4.4's "Open write tx": attempt
// acquisition immediately when the file's write slot is Empty or is
// Retry(m) for this very request (a waiter reposted by advanceQueue),
// otherwise queue behind whatever is already Active or Retry-ing.
func (c *Coordinator) handleOpenWrite(j openWriteJob) {
	fs, err := c.reg.fileFor(j.file)
	if err != nil {
		c.reply(domain.ErrReply(j.msgId, err))
		return
	}

	if fs.queue.state == wqEmpty || (fs.queue.state == wqRetry && fs.queue.retryMsg == j.msgId) {
		c.attemptAcquire(fs, j.file, j.msgId)
		return
	}
	fs.queue.enqueue(wtxReq{msgId: j.msgId, file: j.file})
}

// handleRetry re-enters spec.md §4.3's "attempt acquire" for a file whose
// write slot is Retry(m), when the timer for exactly that m fires. A stale
// timer (superseded by a newer retry or an advance past this msgId) is a
// no-op; the state machine's P3 invariant guarantees at most one retry
// timer is ever live for a given file, so this only guards against races
// during shutdown.
func (c *Coordinator) handleRetry(j retryJob) {
	fs, ok := c.reg.files[j.file]
	if !ok {
		return
	}
	if fs.queue.state != wqRetry || fs.queue.retryMsg != j.msgId {
		return
	}
	c.attemptAcquire(fs, j.file, j.msgId)
}

// attemptAcquire is spec.md §4.3's "attempt acquire" outcome table.
func (c *Coordinator) attemptAcquire(fs *fileState, file domain.FilePath, msgId domain.MsgId) {
	tx, cerr := fs.db.BeginWrite(context.Background())
	if cerr == nil {
		id := domain.NewTxId()
		c.reg.bindWrite(file, id, tx)
		c.metrics.WriteTxActive(string(file), true)
		c.reply(domain.OkTxId(msgId, id))
		return
	}

	if cerr.Busy {
		fs.queue.toRetry(msgId)
		c.metrics.RetryScheduled(string(file))
		scheduleRetry(c.in, c.retryDelay, file, msgId)
		return
	}

	// Acquisition failed for a reason other than BUSY: reply the error for
	// this request, then advance the queue by promoting the next waiter
	// into Retry-and-schedule so FIFO order across failures is preserved.
	c.reply(domain.ErrReply(msgId, cerr))
	if next, ok := fs.queue.popNext(); ok {
		fs.queue.toRetry(next.msgId)
		scheduleRetry(c.in, c.retryDelay, file, next.msgId)
	} else {
		fs.queue.toEmpty()
	}
}

// handleTxOp implements spec.md §4.5's statement dispatch.
func (c *Coordinator) handleTxOp(j txOpJob) {
	if readTx, ok := c.reg.getRead(j.txId); ok {
		c.runOnRead(readTx, j)
		return
	}
	if writeTx, ok := c.reg.getWrite(j.txId); ok {
		c.runOnWrite(writeTx, j)
		return
	}
	c.reply(domain.ErrReply(j.msgId, domain.ErrInvalidTxId(j.txId)))
}

func (c *Coordinator) handleTxEnd(j txEndJob) {
	if tx, file, ok := c.reg.removeRead(j.txId); ok {
		var cerr *domain.CoordinatorError
		if j.commit {
			cerr = tx.Commit()
		} else {
			cerr = tx.Rollback()
		}
		_ = file
		if cerr != nil {
			c.reply(domain.ErrReply(j.msgId, cerr))
			return
		}
		c.reply(domain.OkTxId(j.msgId, j.txId))
		return
	}

	if tx, file, ok := c.reg.removeWrite(j.txId); ok {
		var cerr *domain.CoordinatorError
		if j.commit {
			cerr = tx.Commit()
		} else {
			cerr = tx.Rollback()
		}
		c.metrics.WriteTxActive(string(file), false)
		c.advanceQueue(file)
		if cerr != nil {
			c.reply(domain.ErrReply(j.msgId, cerr))
			return
		}
		c.reply(domain.OkTxId(j.msgId, j.txId))
		return
	}

	c.reply(domain.ErrReply(j.msgId, domain.ErrInvalidTxId(j.txId)))
}

// advanceQueue implements spec.md §4.3's "Active(w), commit/rollback of w"
// transition: the next waiter (if any) is popped, the slot is marked
// Retry(waiter) so no later arrival can overtake it, and the waiter is
// reposted into the event loop as a fresh write-request input, never acquired synchronously
// here, so that the terminal statement's lock release is fully observed by
// the time the next attempt's BEGIN IMMEDIATE runs. The repost is handed to
// a short-lived goroutine rather than sent on c.in directly: c.in is a
// fixed-capacity buffered channel and this call runs on the worker
// goroutine, its sole consumer, so a direct send could block forever once
// the buffer fills, freezing the whole coordinator. Offloading the send
// mirrors scheduleRetry's repost shape (retry.go) - neither touches the
// driver or the registry, only the channel.
func (c *Coordinator) advanceQueue(file domain.FilePath) {
	fs, ok := c.reg.files[file]
	if !ok {
		return
	}
	if next, ok := fs.queue.popNext(); ok {
		fs.queue.toRetry(next.msgId)
		postWriteJob(c.in, next.file, next.msgId)
		return
	}
	fs.queue.toEmpty()
}

func (c *Coordinator) reply(r domain.Reply) {
	errType := ""
	if r.Err != nil {
		errType = r.Err.ErrType
	}
	c.metrics.ReplySent(errType)

	out := c.out
	if out != nil {
		out(r)
	}
}
