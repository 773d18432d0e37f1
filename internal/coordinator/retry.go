// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package coordinator

import (
	"time"

	"github.com/sqlited/sqlited/internal/domain"
)

// defaultRetryDelay is spec.md §4.3's reference value D.
const defaultRetryDelay = 2 * time.Second

// scheduleRetry sleeps for delay then reposts msgId for file back into the
// event loop as a fresh write-tx-open attempt. One short-lived goroutine per
// retry, matching spec.md §2's retry scheduler; it never touches the
// driver or the registry itself, only the channel, so the worker remains
// the sole mutator of coordinator state (spec.md §5).
func scheduleRetry(in chan<- job, delay time.Duration, file domain.FilePath, msgId domain.MsgId) {
	time.AfterFunc(delay, func() {
		in <- retryJob{file: file, msgId: msgId}
	})
}

// postWriteJob reposts a popped waiter as a fresh write-open request from a
// goroutine other than the worker, so the worker's own handler never blocks
// on a full c.in. Unlike scheduleRetry there is no delay to wait out, only
// the worker's own event-loop iteration to return first.
func postWriteJob(in chan<- job, file domain.FilePath, msgId domain.MsgId) {
	go func() {
		in <- openWriteJob{file: file, msgId: msgId}
	}()
}
