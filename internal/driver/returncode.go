// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"errors"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/sqlited/sqlited/internal/domain"
)

// ReturnCode classifies a driver error the way spec.md §4.1 requires: an
// ok/busy/error bucket plus primary and extended SQLite codes when the
// error actually came from SQLite.
type ReturnCode struct {
	OK       bool
	Busy     bool
	Status   domain.ReturnStatus
	Message  string
	Original error
}

// classify extracts a ReturnCode from an arbitrary error returned by
// database/sql. Errors that don't wrap *sqlite.Error (context cancellation,
// connection-pool errors) are reported as non-busy, non-ok, with zero
// primary and extended codes and the error's text as Message.
func classify(err error) ReturnCode {
	if err == nil {
		return ReturnCode{OK: true}
	}

	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		extended := sqlErr.Code()
		primary := extended & 0xff
		return ReturnCode{
			Busy: primary == sqlitelib.SQLITE_BUSY,
			Status: domain.ReturnStatus{
				Primary:  primary,
				Extended: extended,
			},
			Message:  sqlErr.Error(),
			Original: err,
		}
	}

	return ReturnCode{Message: err.Error(), Original: err}
}

// IsBusy reports whether err is (or wraps) a SQLITE_BUSY condition.
func IsBusy(err error) bool {
	return classify(err).Busy
}
