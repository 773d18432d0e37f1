// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"modernc.org/sqlite"
)

const connectionSetupTimeout = 5 * time.Second

var driverInit sync.Once

// registerConnectionHook installs, once per process, the pragma set every
// fresh connection must carry: WAL journaling and NORMAL synchronous per
// spec.md §4.1, plus foreign keys on, matching the teacher's connection-hook
// pattern in internal/database/db.go.
func registerConnectionHook() {
	driverInit.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			if err := execPragma(conn, "PRAGMA journal_mode = WAL", true); err != nil {
				return err
			}
			if err := execPragma(conn, "PRAGMA synchronous = NORMAL", false); err != nil {
				return err
			}
			if err := execPragma(conn, "PRAGMA foreign_keys = ON", false); err != nil {
				return err
			}
			return nil
		})
	})
}

// execPragma runs pragma on a freshly-opened connection. unbounded controls
// whether SQLITE_BUSY is retried without a budget (spec.md §4.1: journal_mode
// can transiently busy-fail on concurrent first opens of the same file, and
// the reference design retries forever on a short sleep) or bounded to 3
// attempts. connectionSetupTimeout bounds each single attempt in both cases.
func execPragma(conn sqlite.ExecQuerierContext, pragma string, unbounded bool) error {
	attempt := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionSetupTimeout)
		defer cancel()
		_, err := conn.ExecContext(ctx, pragma, nil)
		return err
	}

	opts := []retry.Option{
		retry.Delay(25 * time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(IsBusy),
		retry.LastErrorOnly(true),
	}
	if unbounded {
		opts = append(opts, retry.Attempts(0))
	} else {
		opts = append(opts, retry.Attempts(3))
	}

	if err := retry.Do(attempt, opts...); err != nil {
		return fmt.Errorf("connection hook exec %q: %w", pragma, err)
	}
	return nil
}
