// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import (
	"context"

	"github.com/sqlited/sqlited/internal/domain"
	"github.com/sqlited/sqlited/internal/driver"
)

// runOnRead implements spec.md §4.5's ReadTx dispatch rules.
func (c *Coordinator) runOnRead(tx *driver.ReadTx, j txOpJob) {
	if j.op == domain.OpWrite {
		c.reply(domain.ErrReply(j.msgId, domain.ErrQueryIsWrite()))
		return
	}

	args, cerr := bindArgs(j.query, j.params)
	if cerr != nil {
		c.reply(domain.ErrReply(j.msgId, cerr))
		return
	}

	rs, cerr := tx.Run(context.Background(), j.query, args)
	if cerr != nil {
		c.reply(domain.ErrReply(j.msgId, cerr))
		return
	}
	c.reply(domain.OkRSet(j.msgId, rs))
}

// runOnWrite implements spec.md §4.5's WriteTx dispatch rules. `Q` executes
// unconditionally; `Read`/`Write` classify the statement first and reject a
// mismatch before ever touching the driver.
func (c *Coordinator) runOnWrite(tx *driver.WriteTx, j txOpJob) {
	readOnly := domain.IsReadOnlyStatement(j.query)
	switch j.op {
	case domain.OpRead:
		if !readOnly {
			c.reply(domain.ErrReply(j.msgId, domain.ErrQueryIsWrite()))
			return
		}
	case domain.OpWrite:
		if readOnly {
			c.reply(domain.ErrReply(j.msgId, domain.ErrQueryIsRead()))
			return
		}
	case domain.OpQ:
		// opted out of classification, runs either way
	}

	args, cerr := bindArgs(j.query, j.params)
	if cerr != nil {
		c.reply(domain.ErrReply(j.msgId, cerr))
		return
	}

	rs, cerr := tx.Run(context.Background(), j.query, args)
	if cerr != nil {
		c.reply(domain.ErrReply(j.msgId, cerr))
		return
	}
	c.reply(domain.OkRSet(j.msgId, rs))
}

// bindArgs discovers placeholder shape for query and, if the request
// supplied parameters, binds them per spec.md §4.5's rules. A nil params
// request on a statement carrying placeholders is passed through as a
// zero-arg call, which database/sql itself will reject with a driver error.
func bindArgs(query string, params domain.Params) ([]any, *domain.CoordinatorError) {
	switch params.Kind {
	case domain.ParamsNone:
		return nil, nil
	case domain.ParamsIndexBased:
		info := driver.DiscoverPlaceholders(query)
		return driver.BindIndex(info, params.IndexBased)
	case domain.ParamsKeyBased:
		info := driver.DiscoverPlaceholders(query)
		return driver.BindNamed(info, params.KeyBased)
	default:
		return nil, nil
	}
}
