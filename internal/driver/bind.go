// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"database/sql"

	"github.com/sqlited/sqlited/internal/domain"
)

// BindIndex validates and converts positional values for an Index-kind
// statement into database/sql args, per spec.md §4.5's Index binding rules.
func BindIndex(info domain.PlaceholderInfo, values []domain.Val) ([]any, *domain.CoordinatorError) {
	if info.Kind != domain.PlaceholderIndex {
		return nil, domain.ErrPlaceholderDataTypeNotCompatible()
	}
	if len(values) < info.MaxIndex {
		return nil, domain.ErrMissingIndexesInData(len(values), info.MaxIndex)
	}

	args := make([]any, 0, info.MaxIndex)
	for i := 0; i < info.MaxIndex; i++ {
		args = append(args, values[i].Driver())
	}
	return args, nil
}

// BindNamed validates and converts a key/value map for a Key-kind statement
// into database/sql named args, per spec.md §4.5's Key binding rules. All
// occurrences of a base name - regardless of which prefix character (: @ $)
// introduced it in the SQL text - receive the same value; extra keys in data
// are ignored.
func BindNamed(info domain.PlaceholderInfo, data map[string]domain.Val) ([]any, *domain.CoordinatorError) {
	if info.Kind != domain.PlaceholderKey {
		return nil, domain.ErrPlaceholderDataTypeNotCompatible()
	}

	var missing []string
	args := make([]any, 0, len(info.Keys))
	for _, key := range info.Keys {
		v, ok := data[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		args = append(args, sql.Named(key, v.Driver()))
	}
	if len(missing) > 0 {
		return nil, domain.ErrMissingKeysInData(missing)
	}
	return args, nil
}
