// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "fmt"

// ReturnStatus carries the primary and (when available) extended SQLite
// result codes, surfaced to clients per spec.md §6.2/§6.4.
type ReturnStatus struct {
	Primary  int `json:"primary"`
	Extended int `json:"extended,omitempty"`
}

// CoordinatorError is the taxonomy-tagged error returned to clients. ErrType
// is a slash-delimited path identifying the error kind precisely, matching
// spec.md §6.2's error_type examples.
type CoordinatorError struct {
	ErrType string
	Message string
	Status  *ReturnStatus
	Busy    bool
}

func (e *CoordinatorError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.ErrType, e.Message)
	}
	return e.ErrType
}

func newErr(errType, format string, args ...any) *CoordinatorError {
	return &CoordinatorError{ErrType: errType, Message: fmt.Sprintf(format, args...)}
}

// FileOp errors.

func ErrFileDirectoryDoesNotExist(path string) *CoordinatorError {
	return newErr("FileOp/FileDirectoryDoesNotExist", "parent directory for %q does not exist", path)
}

func ErrFileReturnStatus(status ReturnStatus, message string) *CoordinatorError {
	return &CoordinatorError{ErrType: "FileOp/ReturnStatus", Message: message, Status: &status}
}

// Tx lookup errors.

func ErrInvalidTxId(id TxId) *CoordinatorError {
	return newErr("TxOp/InvalidTxId", "no live transaction %q", id)
}

// Statement classification errors.

func ErrQueryIsWrite() *CoordinatorError {
	return newErr("TxOp/ReadError/QueryIsWrite", "statement is a write, not permitted on this operation")
}

func ErrQueryIsRead() *CoordinatorError {
	return newErr("TxOp/WriteError/QueryIsRead", "statement is read-only, not permitted on this operation")
}

// Binding errors.

func ErrPlaceholderDataTypeNotCompatible() *CoordinatorError {
	return newErr("TxOp/WriteBindRunError/BindRunError/ErrorBind/PlaceholderDataTypeNotCompatible",
		"statement placeholder kind does not match the supplied parameter shape")
}

func ErrMissingKeysInData(missing []string) *CoordinatorError {
	return newErr("TxOp/WriteBindRunError/BindRunError/ErrorBind/MissingKeysInData",
		"missing keys in data: %v", missing)
}

func ErrMissingIndexesInData(have, want int) *CoordinatorError {
	return newErr("TxOp/WriteBindRunError/BindRunError/ErrorBind/MissingIndexesInData",
		"need %d positional values, got %d", want, have)
}

func ErrDriverReturnStatus(errType string, status ReturnStatus, message string, busy bool) *CoordinatorError {
	return &CoordinatorError{ErrType: errType, Message: message, Status: &status, Busy: busy}
}

// ErrInputMalformed is returned synchronously from the process boundary and
// never correlated to any asynchronous output.
func ErrInputMalformed(format string, args ...any) *CoordinatorError {
	return newErr("ParseError/InputMalformed", format, args...)
}
