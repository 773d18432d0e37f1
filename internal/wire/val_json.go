// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package wire implements the JSON request/reply codec of spec.md §6.1/§6.2.
// Any codec honoring that wire shape suffices per spec.md §1; this is one
// concrete implementation built on encoding/json, matching the teacher's use
// of stdlib JSON for arbitrary wire payloads elsewhere in the codebase.
package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/sqlited/sqlited/internal/domain"
)

// blobEnvelope disambiguates a Blob from Text on the wire: spec.md §6.1
// calls for Val to ride as "a bare scalar: integer, float, string, null, or
// byte-array", but JSON has no byte-array literal, and a bare base64 string
// would be indistinguishable from Text on decode (breaking R1's round-trip
// property for Blob). A single-key object is the smallest tag that keeps
// every other variant bare.
type blobEnvelope struct {
	Blob *string `json:"$blob"`
}

// marshalVal renders v in the shape this package's request/reply structs
// embed.
func marshalVal(v domain.Val) (json.RawMessage, error) {
	switch v.Kind {
	case domain.ValNull:
		return json.Marshal(nil)
	case domain.ValInt64:
		return json.Marshal(v.I)
	case domain.ValFloat64:
		return json.Marshal(v.F)
	case domain.ValText:
		return json.Marshal(v.S)
	case domain.ValBlob:
		encoded := base64.StdEncoding.EncodeToString(v.B)
		return json.Marshal(blobEnvelope{Blob: &encoded})
	default:
		return nil, fmt.Errorf("unknown Val kind %d", v.Kind)
	}
}

// unmarshalVal parses one wire-encoded Val. Integers and floats are told
// apart by whether the JSON number literal carries a '.' or exponent,
// mirroring how SQLite itself distinguishes INTEGER from REAL storage.
func unmarshalVal(raw json.RawMessage) (domain.Val, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.NewNull(), nil
	}

	var env blobEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Blob != nil {
		b, err := base64.StdEncoding.DecodeString(*env.Blob)
		if err != nil {
			return domain.Val{}, fmt.Errorf("malformed blob Val %q: %w", raw, err)
		}
		return domain.NewBlob(b), nil
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if raw[0] != '"' && dec.Decode(&num) == nil {
		if i, err := num.Int64(); err == nil {
			return domain.NewInt64(i), nil
		}
		f, err := num.Float64()
		if err != nil {
			return domain.Val{}, fmt.Errorf("malformed numeric Val %q: %w", raw, err)
		}
		return domain.NewFloat64(f), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.NewText(s), nil
	}

	return domain.Val{}, fmt.Errorf("unrecognized Val shape %q", raw)
}
