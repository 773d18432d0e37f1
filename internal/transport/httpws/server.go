// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package httpws exposes internal/boundary over HTTP for hosts that cannot
// link the coordinator directly, grounded on the teacher's internal/api
// router (chi middleware ordering, rs/cors) but with a single request/reply
// route instead of a REST resource tree, since spec.md's wire contract is
// one envelope in, one envelope out.
package httpws

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/sqlited/sqlited/internal/boundary"
	"github.com/sqlited/sqlited/internal/coordinator"
	"github.com/sqlited/sqlited/internal/domain"
)

// Server exposes one Boundary over HTTP: POST /v1/input accepts a request
// envelope, blocks for the coordinator's reply, and writes it back on the
// same connection - a long-poll request/reply shape matching spec.md §6.3's
// async-settlement model without requiring a second transport for delivery.
type Server struct {
	boundary *boundary.Boundary

	mu      sync.Mutex
	waiters map[domain.MsgId]chan []byte
}

// NewServer wires a fresh Boundary and starts its coordinator. Call
// Shutdown to stop it.
func NewServer(opts ...coordinator.Option) *Server {
	s := &Server{
		boundary: boundary.New(opts...),
		waiters:  make(map[domain.MsgId]chan []byte),
	}
	s.boundary.Start(s.deliver)
	return s
}

func (s *Server) deliver(msgId domain.MsgId, reply []byte) {
	s.mu.Lock()
	ch, ok := s.waiters[msgId]
	if ok {
		delete(s.waiters, msgId)
	}
	s.mu.Unlock()
	if ok {
		ch <- reply
	}
}

// Shutdown stops the underlying coordinator, rolling back every live
// transaction (spec.md §4.4).
func (s *Server) Shutdown() {
	s.boundary.Stop()
}

// Handler builds the chi router: RequestID/Logger/Recoverer/RealIP in the
// same order the teacher's NewRouter applies them, then CORS, then routes.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Origin", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}).Handler)

	r.Post("/v1/input", s.handleInput)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// inputTimeout bounds how long a pending request waits for a reply before
// the HTTP handler gives up; the coordinator itself has no timeout (a held
// write transaction can block the queue indefinitely per spec.md §9), so
// this is purely a transport-level guard against a leaked connection.
const inputTimeout = 30 * time.Second

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var peek struct {
		Id string `json:"id"`
	}
	_ = json.Unmarshal(body, &peek)

	// The waiter is registered before the request is submitted, so a reply
	// delivered before this handler reaches the select below is not lost.
	msgId := domain.MsgId(peek.Id)
	ch := make(chan []byte, 1)
	s.mu.Lock()
	s.waiters[msgId] = ch
	s.mu.Unlock()

	res := s.boundary.Input(body)
	if !res.Pending {
		s.mu.Lock()
		if s.waiters[msgId] == ch {
			delete(s.waiters, msgId)
		}
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(res.Settled)
		return
	}

	select {
	case reply := <-ch:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(reply)
	case <-time.After(inputTimeout):
		s.mu.Lock()
		delete(s.waiters, msgId)
		s.mu.Unlock()
		log.Warn().Str("msg_id", peek.Id).Msg("httpws: reply wait timed out")
		w.WriteHeader(http.StatusAccepted)
	case <-r.Context().Done():
		s.mu.Lock()
		delete(s.waiters, msgId)
		s.mu.Unlock()
	}
}

