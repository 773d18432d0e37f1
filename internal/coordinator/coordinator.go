// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sqlited/sqlited/internal/domain"
)

// OutputFunc is the sink installed by Start; the worker calls it once per
// settled reply, asynchronously with respect to Submit (spec.md §6.3).
type OutputFunc func(domain.Reply)

// Coordinator is the transaction coordinator of spec.md §1/§2: a
// single-threaded event loop owning a per-file write queue and transaction
// registry. The zero value is not usable; construct with New.
type Coordinator struct {
	retryDelay time.Duration

	mu      sync.Mutex
	in      chan job
	out     OutputFunc
	started bool
	wg      sync.WaitGroup
	reg     *registry
	metrics Metrics
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithRetryDelay overrides spec.md §4.3's fixed retry delay D (reference 2s).
func WithRetryDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.retryDelay = d }
}

func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		retryDelay: defaultRetryDelay,
		reg:        newRegistry(),
		metrics:    noopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start installs the output sink and spins up the worker goroutine. May be
// called again after Stop, per spec.md §6.3.
func (c *Coordinator) Start(output OutputFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		log.Warn().Msg("coordinator: Start called while already running, ignoring")
		return
	}
	c.out = output
	c.in = make(chan job, 256)
	c.reg = newRegistry()
	c.started = true
	c.wg.Add(1)
	go c.run()
}

// Submit enqueues a validated request for processing. It never blocks on
// the reply - the reply, if any, arrives later via the OutputFunc.
func (c *Coordinator) Submit(req domain.Request) {
	c.mu.Lock()
	ch := c.in
	started := c.started
	c.mu.Unlock()
	if !started {
		log.Warn().Str("msg_id", string(req.MsgId)).Msg("coordinator: Submit called before Start, dropping")
		return
	}
	ch <- fromRequest(req)
}

// Stop posts the break token, joins the worker, and drops every live
// transaction (closing connections and releasing locks) deterministically,
// per spec.md §4.4/§9.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	ch := c.in
	c.started = false
	c.mu.Unlock()

	ch <- breakJob{}
	c.wg.Wait()
}
