// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logger installs the global zerolog logger every other package
// logs through via "github.com/rs/zerolog/log", the way the teacher's code
// calls log.Debug()/log.Warn() against the package-level logger rather than
// threading a *zerolog.Logger through every constructor.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger. LogPath enables file output,
// rotated with lumberjack; console output to stderr is always on.
type Options struct {
	Level         string
	LogPath       string
	LogMaxSize    int
	LogMaxBackups int
}

// Configure installs the global zerolog logger per Options. Safe to call
// once at process startup.
func Configure(opts Options) {
	zerolog.SetGlobalLevel(levelFromString(opts.Level))

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var w io.Writer = console
	if opts.LogPath != "" {
		file := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    orDefault(opts.LogMaxSize, 50),
			MaxBackups: orDefault(opts.LogMaxBackups, 3),
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(console, file)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func levelFromString(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
