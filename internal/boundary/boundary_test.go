// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package boundary

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sqlited/sqlited/internal/domain"
)

func TestInput_MalformedSettlesSynchronously(t *testing.T) {
	b := New()
	defer b.Stop()

	var called bool
	b.Start(func(domain.MsgId, []byte) { called = true })

	res := b.Input([]byte("this is not valid JSON"))
	require.False(t, res.Pending)
	require.NotEmpty(t, res.Settled)

	var decoded struct {
		Ok    bool `json:"ok"`
		Error struct {
			ErrType string `json:"error_type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(res.Settled, &decoded))
	require.False(t, decoded.Ok)
	require.Contains(t, decoded.Error.ErrType, "ParseError/")
	require.False(t, called, "malformed input must never reach the output sink")
}

func TestInput_PendingThenAsyncOutput(t *testing.T) {
	b := New()
	defer b.Stop()

	var mu sync.Mutex
	outputs := make(map[string][]byte)
	b.Start(func(msgId domain.MsgId, reply []byte) {
		mu.Lock()
		outputs[string(msgId)] = reply
		mu.Unlock()
	})

	dbPath := filepath.Join(t.TempDir(), "a.db")
	id := uuid.NewString()
	body := fmt.Sprintf(`{"id":%q,"fn":"file/get_read_tx","args":{"file":%q}}`, id, dbPath)

	res := b.Input([]byte(body))
	require.True(t, res.Pending)
	require.Empty(t, res.Settled)

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		_, ok := outputs[id]
		mu.Unlock()
		if ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for async reply")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
