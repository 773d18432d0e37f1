// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package wire

import (
	"encoding/json"

	"github.com/sqlited/sqlited/internal/domain"
)

// rawEnvelope is the outer request shape of spec.md §6.1: `{id, fn, args}`.
type rawEnvelope struct {
	Id   string          `json:"id"`
	Fn   string          `json:"fn"`
	Args json.RawMessage `json:"args"`
}

type rawFileArgs struct {
	File string `json:"file"`
}

type rawTxArgs struct {
	TxId string `json:"tx_id"`
	Q    string `json:"q"`
}

type rawTxParamsArgs struct {
	TxId        string                     `json:"tx_id"`
	Q           string                     `json:"q"`
	IndexBased  []json.RawMessage          `json:"index_based,omitempty"`
	KeyBased    map[string]json.RawMessage `json:"key_based,omitempty"`
}

type rawTxEndArgs struct {
	TxId string `json:"tx_id"`
}

// ParseRequest decodes one request envelope into a domain.Request. Any
// failure here is spec.md §7's InputMalformed: parse errors, unknown fn,
// malformed args, or a MsgId that doesn't match the required shape. It is
// surfaced synchronously by the caller (internal/boundary) and never
// reaches the coordinator.
func ParseRequest(data []byte) (domain.Request, *domain.CoordinatorError) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Request{}, domain.ErrInputMalformed("invalid JSON envelope: %s", err)
	}

	msgId, err := domain.ParseMsgId(env.Id)
	if err != nil {
		return domain.Request{}, domain.ErrInputMalformed("%s", err)
	}

	fn := domain.FnName(env.Fn)
	switch fn {
	case domain.FnGetReadTx, domain.FnGetWriteTx:
		var args rawFileArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return domain.Request{}, domain.ErrInputMalformed("invalid args for %s: %s", fn, err)
		}
		path, err := domain.NewFilePath(args.File)
		if err != nil {
			return domain.Request{}, domain.ErrInputMalformed("invalid file path: %s", err)
		}
		return domain.Request{MsgId: msgId, Fn: fn, File: path}, nil

	case domain.FnTxQ, domain.FnTxRead, domain.FnTxWrite:
		var args rawTxArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return domain.Request{}, domain.ErrInputMalformed("invalid args for %s: %s", fn, err)
		}
		txId, err := parseTxId(args.TxId)
		if err != nil {
			return domain.Request{}, err
		}
		return domain.Request{MsgId: msgId, Fn: fn, TxId: txId, Query: args.Q, Op: opFor(fn)}, nil

	case domain.FnTxQParams, domain.FnTxReadParams, domain.FnTxWriteParams:
		var args rawTxParamsArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return domain.Request{}, domain.ErrInputMalformed("invalid args for %s: %s", fn, err)
		}
		txId, err := parseTxId(args.TxId)
		if err != nil {
			return domain.Request{}, err
		}
		params, perr := parseParams(args)
		if perr != nil {
			return domain.Request{}, perr
		}
		return domain.Request{MsgId: msgId, Fn: fn, TxId: txId, Query: args.Q, Op: opFor(fn), Params: params}, nil

	case domain.FnTxCommit, domain.FnTxRollback:
		var args rawTxEndArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return domain.Request{}, domain.ErrInputMalformed("invalid args for %s: %s", fn, err)
		}
		txId, err := parseTxId(args.TxId)
		if err != nil {
			return domain.Request{}, err
		}
		return domain.Request{MsgId: msgId, Fn: fn, TxId: txId}, nil

	default:
		return domain.Request{}, domain.ErrInputMalformed("unknown fn %q", env.Fn)
	}
}

func parseTxId(s string) (domain.TxId, *domain.CoordinatorError) {
	if s == "" {
		return "", domain.ErrInputMalformed("missing tx_id")
	}
	return domain.TxId(s), nil
}

func opFor(fn domain.FnName) domain.OpKind {
	switch fn {
	case domain.FnTxRead, domain.FnTxReadParams:
		return domain.OpRead
	case domain.FnTxWrite, domain.FnTxWriteParams:
		return domain.OpWrite
	default:
		return domain.OpQ
	}
}

func parseParams(args rawTxParamsArgs) (domain.Params, *domain.CoordinatorError) {
	switch {
	case len(args.IndexBased) > 0 && len(args.KeyBased) > 0:
		return domain.Params{}, domain.ErrInputMalformed("request carries both index_based and key_based params")

	case len(args.IndexBased) > 0:
		values := make([]domain.Val, 0, len(args.IndexBased))
		for i, raw := range args.IndexBased {
			v, err := unmarshalVal(raw)
			if err != nil {
				return domain.Params{}, domain.ErrInputMalformed("index_based[%d]: %s", i, err)
			}
			values = append(values, v)
		}
		return domain.Params{Kind: domain.ParamsIndexBased, IndexBased: values}, nil

	case len(args.KeyBased) > 0:
		values := make(map[string]domain.Val, len(args.KeyBased))
		for k, raw := range args.KeyBased {
			v, err := unmarshalVal(raw)
			if err != nil {
				return domain.Params{}, domain.ErrInputMalformed("key_based[%q]: %s", k, err)
			}
			values[k] = v
		}
		return domain.Params{Kind: domain.ParamsKeyBased, KeyBased: values}, nil

	default:
		return domain.Params{Kind: domain.ParamsNone}, nil
	}
}
