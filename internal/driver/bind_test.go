// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlited/sqlited/internal/domain"
)

func TestBindIndex(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderIndex, MaxIndex: 2}

	args, cerr := BindIndex(info, []domain.Val{domain.NewInt64(1), domain.NewText("two")})
	require.Nil(t, cerr)
	require.Len(t, args, 2)
	assert.Equal(t, int64(1), args[0])
	assert.Equal(t, "two", args[1])
}

func TestBindIndex_MissingIndexes(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderIndex, MaxIndex: 3}
	_, cerr := BindIndex(info, []domain.Val{domain.NewInt64(1)})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "MissingIndexesInData")
}

func TestBindIndex_KindMismatch(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderKey, MaxIndex: 0, Keys: []string{"a"}}
	_, cerr := BindIndex(info, []domain.Val{domain.NewInt64(1)})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "PlaceholderDataTypeNotCompatible")
}

func TestBindIndex_NoneKindRejectsEvenEmptyIndexes(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderNone}
	_, cerr := BindIndex(info, nil)
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "PlaceholderDataTypeNotCompatible")
}

func TestBindNamed_NoneKindRejectsNonEmptyData(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderNone}
	_, cerr := BindNamed(info, map[string]domain.Val{"foo": domain.NewText("hello")})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "PlaceholderDataTypeNotCompatible")
}

func TestBindNamed(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderKey, Keys: []string{"foo", "bar"}}
	args, cerr := BindNamed(info, map[string]domain.Val{
		"foo": domain.NewText("hello"),
		"bar": domain.NewInt64(42),
		"baz": domain.NewInt64(999), // extra key, ignored
	})
	require.Nil(t, cerr)
	assert.Len(t, args, 2)
}

func TestBindNamed_MissingKeys(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderKey, Keys: []string{"foo", "bar"}}
	_, cerr := BindNamed(info, map[string]domain.Val{"foo": domain.NewText("hello")})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "MissingKeysInData")
	assert.Contains(t, cerr.Message, "bar")
}

func TestBindNamed_KindMismatch(t *testing.T) {
	info := domain.PlaceholderInfo{Kind: domain.PlaceholderIndexAndKey, MaxIndex: 1, Keys: []string{"foo"}}
	_, cerr := BindNamed(info, map[string]domain.Val{"foo": domain.NewText("hello")})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.ErrType, "PlaceholderDataTypeNotCompatible")
}
