// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a Manager's registry over /metrics, with optional HTTP
// basic auth, the way the teacher's metrics server guards its endpoint.
type Server struct {
	manager        *Manager
	server         *http.Server
	basicAuthUsers map[string]string
	listener       net.Listener
}

// NewServer builds a /metrics HTTP server bound to host:port. basicAuthUsers
// is a comma-separated "user:pass" list ("" disables auth); malformed
// entries are skipped.
func NewServer(manager *Manager, host string, port int, basicAuthUsers string) *Server {
	users := parseBasicAuthUsers(basicAuthUsers)

	mux := http.NewServeMux()
	handler := promhttp.HandlerFor(manager.Registry(), promhttp.HandlerOpts{})
	if len(users) > 0 {
		handler = BasicAuth("metrics", users)(handler)
	}
	mux.Handle("/metrics", handler)

	return &Server{
		manager:        manager,
		basicAuthUsers: users,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", host, port),
			Handler: mux,
		},
	}
}

func parseBasicAuthUsers(raw string) map[string]string {
	users := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		user, pass, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		users[strings.TrimSpace(user)] = strings.TrimSpace(pass)
	}
	return users
}

// BasicAuth wraps next with HTTP basic auth checked against users.
func BasicAuth(realm string, users map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !validCredentials(users, user, pass) {
				w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm=%q`, realm))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func validCredentials(users map[string]string, user, pass string) bool {
	want, ok := users[user]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(pass)) == 1
}

// ListenAndServe binds the configured address and serves until Stop or
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return s.server.Serve(ln)
}

// Stop closes the listener immediately.
func (s *Server) Stop() error {
	return s.server.Close()
}

// Shutdown drains in-flight requests before closing, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
