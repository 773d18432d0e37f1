// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package domain holds the value and identifier types shared by the driver
// adapter, the coordinator and the wire codec.
package domain

import "fmt"

// ValKind tags the variant carried by a Val.
type ValKind int

const (
	ValInt64 ValKind = iota
	ValFloat64
	ValText
	ValNull
	ValBlob
)

// Val is the bindable/returnable cell value domain: SQLite has no boolean,
// 0/1 integers stand in for it.
type Val struct {
	Kind ValKind
	I    int64
	F    float64
	S    string
	B    []byte
}

func NewInt64(v int64) Val   { return Val{Kind: ValInt64, I: v} }
func NewFloat64(v float64) Val { return Val{Kind: ValFloat64, F: v} }
func NewText(v string) Val   { return Val{Kind: ValText, S: v} }
func NewBlob(v []byte) Val   { return Val{Kind: ValBlob, B: v} }
func NewNull() Val           { return Val{Kind: ValNull} }

// Driver returns the value in the shape database/sql expects for binding.
func (v Val) Driver() any {
	switch v.Kind {
	case ValInt64:
		return v.I
	case ValFloat64:
		return v.F
	case ValText:
		return v.S
	case ValBlob:
		return v.B
	default:
		return nil
	}
}

// FromDriver converts a value scanned out of database/sql back into a Val.
func FromDriver(v any) Val {
	switch t := v.(type) {
	case int64:
		return NewInt64(t)
	case float64:
		return NewFloat64(t)
	case string:
		return NewText(t)
	case []byte:
		// Every []byte becomes a Blob; the column's declared type is not
		// consulted.
		return NewBlob(t)
	case nil:
		return NewNull()
	default:
		return Val{Kind: ValText, S: fmt.Sprintf("%v", t)}
	}
}

func (v Val) Equal(o Val) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValInt64:
		return v.I == o.I
	case ValFloat64:
		return v.F == o.F
	case ValText:
		return v.S == o.S
	case ValBlob:
		return string(v.B) == string(o.B)
	default:
		return true
	}
}
