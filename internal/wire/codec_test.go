// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package wire

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlited/sqlited/internal/domain"
)

func TestParseRequest_GetReadTx(t *testing.T) {
	id := uuid.NewString()
	body := fmt.Sprintf(`{"id":%q,"fn":"file/get_read_tx","args":{"file":"/tmp/a.db"}}`, id)

	req, cerr := ParseRequest([]byte(body))
	require.Nil(t, cerr)
	assert.Equal(t, domain.MsgId(id), req.MsgId)
	assert.Equal(t, domain.FnGetReadTx, req.Fn)
	assert.Equal(t, domain.FilePath("/tmp/a.db"), req.File)
}

func TestParseRequest_MalformedJSON(t *testing.T) {
	_, cerr := ParseRequest([]byte("this is not valid JSON"))
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "ParseError/")
}

func TestParseRequest_BadMsgIdShape(t *testing.T) {
	body := `{"id":"not-a-uuid","fn":"file/get_read_tx","args":{"file":"/tmp/a.db"}}`
	_, cerr := ParseRequest([]byte(body))
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "ParseError/")
}

func TestParseRequest_UnknownFn(t *testing.T) {
	body := fmt.Sprintf(`{"id":%q,"fn":"bogus/op","args":{}}`, uuid.NewString())
	_, cerr := ParseRequest([]byte(body))
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "ParseError/")
}

func TestParseRequest_IndexParams(t *testing.T) {
	body := fmt.Sprintf(`{"id":%q,"fn":"tx/q_params","args":{"tx_id":"t1","q":"SELECT ?","index_based":[42]}}`, uuid.NewString())
	req, cerr := ParseRequest([]byte(body))
	require.Nil(t, cerr)
	require.Equal(t, domain.ParamsIndexBased, req.Params.Kind)
	require.Len(t, req.Params.IndexBased, 1)
	assert.Equal(t, int64(42), req.Params.IndexBased[0].I)
}

func TestParseRequest_KeyParams(t *testing.T) {
	body := fmt.Sprintf(`{"id":%q,"fn":"tx/write_params","args":{"tx_id":"t1","q":"UPDATE t SET a=:a","key_based":{"a":"hi"}}}`, uuid.NewString())
	req, cerr := ParseRequest([]byte(body))
	require.Nil(t, cerr)
	require.Equal(t, domain.ParamsKeyBased, req.Params.Kind)
	assert.Equal(t, "hi", req.Params.KeyBased["a"].S)
}

func TestValJSONRoundTrip(t *testing.T) {
	cases := []domain.Val{
		domain.NewInt64(7),
		domain.NewFloat64(2.5),
		domain.NewText("hello"),
		domain.NewNull(),
		domain.NewBlob([]byte{1, 2, 3}),
	}
	for _, v := range cases {
		raw, err := marshalVal(v)
		require.NoError(t, err)
		got, err := unmarshalVal(raw)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch: %+v -> %s -> %+v", v, raw, got)
	}
}

func TestEncodeReply_RSet(t *testing.T) {
	rows := int64(2)
	rs := &domain.ResultSet{
		IsIUD:       true,
		RowsChanged: &rows,
		Columns:     []domain.Column{{Name: "a", Origin: "a"}},
		Rows:        [][]domain.Val{{domain.NewInt64(1)}, {domain.NewInt64(2)}},
	}
	out := EncodeReply(domain.OkRSet("m1", rs))

	var decoded rawReply
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.True(t, decoded.Ok)
	assert.Equal(t, "RSet", decoded.ResType)
}

func TestEncodeReply_Error(t *testing.T) {
	out := EncodeReply(domain.ErrReply("m1", domain.ErrInvalidTxId("bogus")))

	var decoded rawReply
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.False(t, decoded.Ok)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, "TxOp/InvalidTxId", decoded.Error.ErrType)
}
