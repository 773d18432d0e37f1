// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package buildinfo carries version metadata set at link time via
// -ldflags, in the shape cmd/sqlited's release build uses.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/sqlited/sqlited/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent identifies this binary to any peer it dials out to (none today,
// reserved for a future replication/backup transport).
var UserAgent string

func init() {
	UserAgent = fmt.Sprintf("sqlited/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}

// String renders a human-readable three-line build summary.
func String() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild date: %s\n", Version, Commit, Date)
}

type info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// JSON renders the same build summary for the version CLI subcommand's
// --json flag.
func JSON() ([]byte, error) {
	return json.Marshal(info{Version: Version, Commit: Commit, Date: Date})
}
