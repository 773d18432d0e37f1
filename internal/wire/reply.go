// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package wire

import (
	"encoding/json"

	"github.com/sqlited/sqlited/internal/domain"
)

type rawReply struct {
	Ok      bool            `json:"ok"`
	ResType string          `json:"res_type,omitempty"`
	Res     json.RawMessage `json:"res,omitempty"`
	Error   *rawError       `json:"error,omitempty"`
}

type rawError struct {
	ErrType string           `json:"error_type"`
	Message string           `json:"message,omitempty"`
	Data    *rawErrorData    `json:"data,omitempty"`
}

type rawErrorData struct {
	ReturnStatus *domain.ReturnStatus `json:"return_status,omitempty"`
}

type rawTxIdRes struct {
	TxId string `json:"tx_id"`
}

type rawColumn struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
}

type rawRSetRes struct {
	IsReadOnly  bool              `json:"is_read_only"`
	IsIUD       bool              `json:"is_iud"`
	RowsChanged *int64            `json:"rows_changed,omitempty"`
	Columns     []rawColumn       `json:"columns"`
	RowCount    int               `json:"row_count"`
	ColumnCount int               `json:"column_count"`
	Rows        [][]json.RawMessage `json:"rows"`
}

// EncodeReply renders one coordinator Reply in the wire shape of spec.md
// §6.2. It never fails: every field it touches is already well-formed by
// construction, so a marshal error here would be a programming bug.
func EncodeReply(r domain.Reply) []byte {
	if r.IsError() {
		return encodeError(r.Err)
	}

	var res json.RawMessage
	switch r.ResType {
	case domain.ResTxIdOnly:
		res = must(json.Marshal(rawTxIdRes{TxId: string(r.TxId)}))
	case domain.ResRSet:
		res = must(json.Marshal(rsetToRaw(r.RSet)))
	}

	return must(json.Marshal(rawReply{Ok: true, ResType: string(r.ResType), Res: res}))
}

// EncodeError renders a synchronous "settled" error for malformed input
// (spec.md §6.3), which never passes through the coordinator and so never
// becomes a domain.Reply.
func EncodeError(err *domain.CoordinatorError) []byte {
	return encodeError(err)
}

func encodeError(err *domain.CoordinatorError) []byte {
	re := &rawError{ErrType: err.ErrType, Message: err.Message}
	if err.Status != nil {
		re.Data = &rawErrorData{ReturnStatus: err.Status}
	}
	return must(json.Marshal(rawReply{Ok: false, Error: re}))
}

func rsetToRaw(rs *domain.ResultSet) rawRSetRes {
	cols := make([]rawColumn, len(rs.Columns))
	for i, c := range rs.Columns {
		cols[i] = rawColumn{Name: c.Name, Origin: c.Origin}
	}

	rows := make([][]json.RawMessage, len(rs.Rows))
	for i, row := range rs.Rows {
		encoded := make([]json.RawMessage, len(row))
		for j, v := range row {
			encoded[j] = must(marshalVal(v))
		}
		rows[i] = encoded
	}

	return rawRSetRes{
		IsReadOnly:  rs.IsReadOnly,
		IsIUD:       rs.IsIUD,
		RowsChanged: rs.RowsChanged,
		Columns:     cols,
		RowCount:    rs.RowCount(),
		ColumnCount: rs.ColumnCount(),
		Rows:        rows,
	}
}

func must(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}
