// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import "github.com/sqlited/sqlited/internal/domain"

// job is one item on the event loop's MPSC input channel: a client request
// translated from domain.Request, a scheduled retry, or the shutdown token
// (spec.md §4.4).
type job interface{ isJob() }

type openReadJob struct {
	msgId domain.MsgId
	file  domain.FilePath
}

func (openReadJob) isJob() {}

type openWriteJob struct {
	msgId domain.MsgId
	file  domain.FilePath
}

func (openWriteJob) isJob() {}

// retryJob re-enters the loop when a file's in-flight retry timer fires.
type retryJob struct {
	msgId domain.MsgId
	file  domain.FilePath
}

func (retryJob) isJob() {}

type txOpJob struct {
	msgId  domain.MsgId
	txId   domain.TxId
	op     domain.OpKind
	query  string
	params domain.Params
}

func (txOpJob) isJob() {}

type txEndJob struct {
	msgId  domain.MsgId
	txId   domain.TxId
	commit bool
}

func (txEndJob) isJob() {}

type breakJob struct{}

func (breakJob) isJob() {}

// fromRequest translates a validated domain.Request into the job the event
// loop dispatches on.
func fromRequest(req domain.Request) job {
	switch req.Fn {
	case domain.FnGetReadTx:
		return openReadJob{msgId: req.MsgId, file: req.File}
	case domain.FnGetWriteTx:
		return openWriteJob{msgId: req.MsgId, file: req.File}
	case domain.FnTxCommit:
		return txEndJob{msgId: req.MsgId, txId: req.TxId, commit: true}
	case domain.FnTxRollback:
		return txEndJob{msgId: req.MsgId, txId: req.TxId, commit: false}
	default:
		return txOpJob{
			msgId:  req.MsgId,
			txId:   req.TxId,
			op:     req.Op,
			query:  req.Query,
			params: req.Params,
		}
	}
}
