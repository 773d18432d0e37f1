// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package boundary implements spec.md §6.3's process boundary: the two sync
// entry points (Input, Start) and deterministic teardown (Stop) that sit
// between an embedding host and the transaction coordinator.
package boundary

import (
	"github.com/sqlited/sqlited/internal/coordinator"
	"github.com/sqlited/sqlited/internal/domain"
	"github.com/sqlited/sqlited/internal/wire"
)

// OutputCallback is the host-installed sink; Boundary invokes it
// asynchronously, once per settled reply, carrying the MsgId it correlates
// to and the wire-encoded reply bytes.
type OutputCallback func(msgId domain.MsgId, replyBytes []byte)

// InputResult mirrors spec.md §6.3's `{ret_i_type: "pending" | "settled"}`.
// Pending means the request was handed to the coordinator and its reply
// will arrive later via OutputCallback. Settled carries a reply that could
// never be assigned to a live message (malformed input).
type InputResult struct {
	Pending bool
	Settled []byte
}

// Boundary owns one Coordinator and translates between wire bytes and
// domain.Request/Reply at its edges.
type Boundary struct {
	coord *coordinator.Coordinator
}

func New(opts ...coordinator.Option) *Boundary {
	return &Boundary{coord: coordinator.New(opts...)}
}

// Input parses and, if well-formed, submits request_bytes to the
// coordinator. Parse failures - bad JSON, unknown fn, malformed args, bad
// MsgId shape - never reach the coordinator; they are InputMalformed and
// settle synchronously here (spec.md §7).
func (b *Boundary) Input(requestBytes []byte) InputResult {
	req, cerr := wire.ParseRequest(requestBytes)
	if cerr != nil {
		return InputResult{Settled: wire.EncodeError(cerr)}
	}
	b.coord.Submit(req)
	return InputResult{Pending: true}
}

// Start installs output as the single output sink and starts the
// coordinator's worker. May be called again after Stop.
func (b *Boundary) Start(output OutputCallback) {
	b.coord.Start(func(r domain.Reply) {
		output(r.MsgId, wire.EncodeReply(r))
	})
}

// Stop tears the coordinator down deterministically: joins the worker,
// drops all transactions, closes connections.
func (b *Boundary) Stop() {
	b.coord.Stop()
}
