// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package driver

import (
	"strconv"
	"time"

	"github.com/autobrr/autobrr/pkg/ttlcache"

	"github.com/sqlited/sqlited/internal/domain"
)

// placeholderCacheTTL bounds how long a statement's discovered placeholder
// shape is remembered; matches the teacher's prepared-statement cache TTL
// (internal/database/db.go's getStmt).
const placeholderCacheTTL = 5 * time.Minute

var placeholderCache = ttlcache.New(ttlcache.Options[string, domain.PlaceholderInfo]{}.SetDefaultTTL(placeholderCacheTTL))

// DiscoverPlaceholders scans sql for bind parameters and classifies them per
// spec.md §4.5, caching the result per distinct SQL text so a hot query
// isn't re-lexed on every run. This is the driver adapter's `prepare` step
// (spec.md §4.1). The real primitives are sqlite3_bind_parameter_count and
// sqlite3_bind_parameter_name against a prepared statement handle; but
// modernc.org/sqlite's database/sql surface hides the prepared statement
// behind an unexported *stmt and answers NumInput() with an unconditional
// -1 (see its Stmt.NumInput doc: "driver doesn't know its number of
// placeholders"), so there is no handle through database/sql to call those
// against. Lexing the SQL text for placeholder tokens is the fallback, not
// the preferred mechanism - it walks the text once, skipping over single-
// and double-quoted string literals and line/block comments so
// placeholder-shaped text inside a literal isn't mistaken for a real bind
// parameter, but it is still text scanning, not parsing the statement.
func DiscoverPlaceholders(sql string) domain.PlaceholderInfo {
	if info, found := placeholderCache.Get(sql); found {
		return info
	}
	info := scanPlaceholders(sql)
	placeholderCache.Set(sql, info, ttlcache.DefaultTTL)
	return info
}

func scanPlaceholders(sql string) domain.PlaceholderInfo {
	var (
		hasIndex   bool
		hasKey     bool
		maxIndex   int
		bareCount  int
		seenKey    = map[string]bool{}
		keys       []string
	)

	runes := []rune(sql)
	n := len(runes)
	for i := 0; i < n; i++ {
		c := runes[i]

		switch c {
		case '\'', '"':
			i = skipQuoted(runes, i, c)
			continue
		case '-':
			if i+1 < n && runes[i+1] == '-' {
				i = skipLineComment(runes, i)
				continue
			}
		case '/':
			if i+1 < n && runes[i+1] == '*' {
				i = skipBlockComment(runes, i)
				continue
			}
		case '?':
			hasIndex = true
			j := i + 1
			for j < n && isDigit(runes[j]) {
				j++
			}
			if j > i+1 {
				if v, err := strconv.Atoi(string(runes[i+1 : j])); err == nil && v > maxIndex {
					maxIndex = v
				}
				i = j - 1
			} else {
				// bare '?' or '?name': consume any trailing identifier chars too,
				// but a bare '?' alone counts as the next positional slot.
				k := j
				for k < n && isIdentByte(runes[k]) {
					k++
				}
				if k > j {
					i = k - 1
				}
				bareCount++
			}
		case ':', '@', '$':
			j := i + 1
			for j < n && isIdentByte(runes[j]) {
				j++
			}
			if j > i+1 {
				hasKey = true
				name := string(runes[i+1 : j])
				if !seenKey[name] {
					seenKey[name] = true
					keys = append(keys, name)
				}
				i = j - 1
			}
		}
	}

	if bareCount > maxIndex {
		maxIndex = bareCount
	}

	info := domain.PlaceholderInfo{MaxIndex: maxIndex, Keys: keys}
	switch {
	case hasIndex && hasKey:
		info.Kind = domain.PlaceholderIndexAndKey
	case hasIndex:
		info.Kind = domain.PlaceholderIndex
	case hasKey:
		info.Kind = domain.PlaceholderKey
	default:
		info.Kind = domain.PlaceholderNone
	}
	return info
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentByte(r rune) bool {
	return r == '_' || isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func skipQuoted(runes []rune, i int, quote rune) int {
	n := len(runes)
	j := i + 1
	for j < n {
		if runes[j] == quote {
			// SQL escapes a quote by doubling it.
			if j+1 < n && runes[j+1] == quote {
				j += 2
				continue
			}
			return j
		}
		j++
	}
	return j
}

func skipLineComment(runes []rune, i int) int {
	n := len(runes)
	j := i
	for j < n && runes[j] != '\n' {
		j++
	}
	return j
}

func skipBlockComment(runes []rune, i int) int {
	n := len(runes)
	j := i + 2
	for j+1 < n && !(runes[j] == '*' && runes[j+1] == '/') {
		j++
	}
	if j+1 < n {
		return j + 1
	}
	return n - 1
}
