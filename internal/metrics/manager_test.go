// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerReportsState(t *testing.T) {
	m := NewManager()
	require.NotNil(t, m.Registry())

	m.WriteTxActive("/tmp/a.db", true)
	m.RetryScheduled("/tmp/a.db")
	m.RetryScheduled("/tmp/a.db")
	m.ReplySent("")
	m.ReplySent("TxOp/InvalidTxId")
	m.ObserveAcquireSeconds(0.01)

	gathered, err := m.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range gathered {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "sqlited_active_write_tx")
	assert.Contains(t, joined, "sqlited_write_retries_total")
	assert.Contains(t, joined, "sqlited_replies_total")
	assert.Contains(t, joined, "sqlited_write_acquire_seconds")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.retriesTotal.WithLabelValues("/tmp/a.db")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeWriteTx.WithLabelValues("/tmp/a.db")))
}
