// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// MsgId is a client-supplied correlation identifier. It must match the
// hyphenated 16-byte random identifier form (a textual UUID).
type MsgId string

// msgIdPattern is deliberately a single literal shape - lowercase hex,
// hyphenated, no braces, no urn: prefix - rather than the much wider set
// uuid.Parse accepts. Clients and the coordinator both use the msg id as a
// map key, so two different textual spellings of the same identifier must
// never both be accepted; the caller gets exactly one valid form, not one
// normalized internally from several.
var msgIdPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ParseMsgId validates the textual shape required by spec.md §3: a
// lowercase, hyphenated 16-byte random identifier. It does not require the
// value to be a version-4 UUID (the version/variant nibbles are unchecked),
// only this exact shape - uppercase hex, bare 32-hex, {braced}, and
// urn:uuid: forms are all rejected even though they name the same UUID.
func ParseMsgId(s string) (MsgId, error) {
	if !msgIdPattern.MatchString(s) {
		return "", fmt.Errorf("malformed msg id %q: must be a lowercase hyphenated uuid", s)
	}
	return MsgId(s), nil
}

// TxId is minted by the coordinator and opaque to clients beyond being a
// stable handle for subsequent statement/commit/rollback messages.
type TxId string

// NewTxId mints a fresh, globally unique transaction identifier.
func NewTxId() TxId {
	return TxId(uuid.NewString())
}

// FilePath is a canonicalized absolute path string. Canonicalization is
// lexical: spellings that differ only by relative form, "." or ".." segments,
// or redundant separators produce an equal FilePath. Symbolic links are not
// resolved, so two paths that reach the same file through a link produce
// different FilePaths.
type FilePath string

// NewFilePath canonicalizes a client-supplied path into an absolute FilePath.
// It does not touch the filesystem; a missing parent directory is reported
// later, when driver.Open is called for the path.
func NewFilePath(raw string) (FilePath, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", raw, err)
	}
	abs = filepath.Clean(abs)
	return FilePath(abs), nil
}

func (p FilePath) String() string { return string(p) }
