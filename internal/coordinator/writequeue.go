// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import (
	"github.com/sqlited/sqlited/internal/domain"
	"github.com/sqlited/sqlited/internal/driver"
)

// wqState is spec.md §3's WriteQueue.state: Empty / Retry(MsgId) / Active(w).
type wqState int

const (
	wqEmpty wqState = iota
	wqRetry
	wqActive
)

// wtxReq is spec.md's WtxReq: a pending write-transaction open request.
type wtxReq struct {
	msgId domain.MsgId
	file  domain.FilePath
}

// writeQueue is the per-file write slot plus its FIFO of waiters, per
// spec.md §3/§4.3. Active and Retry never both hold simultaneously; pending
// only ever grows from the back and drains from the front.
type writeQueue struct {
	state      wqState
	retryMsg   domain.MsgId
	activeTxId domain.TxId
	activeTx   *driver.WriteTx
	pending    []wtxReq
}

func (q *writeQueue) enqueue(req wtxReq) {
	q.pending = append(q.pending, req)
}

// popNext removes and returns the head of the pending queue, or ok=false if
// empty.
func (q *writeQueue) popNext() (wtxReq, bool) {
	if len(q.pending) == 0 {
		return wtxReq{}, false
	}
	head := q.pending[0]
	q.pending = q.pending[1:]
	return head, true
}

// toEmpty resets the slot to Empty - no active writer, no retry in flight.
func (q *writeQueue) toEmpty() {
	q.state = wqEmpty
	q.activeTxId = ""
	q.activeTx = nil
	q.retryMsg = ""
}

// toRetry marks msgId as the in-flight retry for this file (spec.md §4.3).
func (q *writeQueue) toRetry(msgId domain.MsgId) {
	q.state = wqRetry
	q.retryMsg = msgId
	q.activeTxId = ""
	q.activeTx = nil
}
