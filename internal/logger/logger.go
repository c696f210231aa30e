// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package logger provides logging functionality for the ssmenv tool.
//
// It wraps the standard library's log/slog package to provide consistent logging
// across the application with configurable log levels and formats. The package
// supports debug, info, warn, and error levels, defaulting to info if an invalid
// level is specified.
//
// Logs are meant for stderr: stdout belongs to the launched command.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Supported log formats
const (
	FormatText   = "text"
	FormatPretty = "pretty"
)

// ParseLevel converts a level name into a slog.Level.
//
// The level parameter is case-insensitive and can be one of:
//   - "debug": Most verbose level, includes detailed debugging information
//   - "info": Standard log level for general operational information (default)
//   - "warn": Warnings and potentially harmful situations
//   - "error": Error conditions that should be addressed
//
// If an invalid level is provided, it defaults to "info".
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger initializes and returns a new slog.Logger writing to w with the
// specified level and format. It also sets this logger as the default global
// logger.
//
// Format "pretty" uses a colourised tint handler, anything else the plain
// slog text handler.
//
// Example usage:
//
//	logger := InitLogger("debug", "text", os.Stderr)
//	logger.Debug("Detailed information", "key", "value")
//	logger.Error("Error condition", "error", err)
func InitLogger(level, format string, w io.Writer) *slog.Logger {
	logLevel := ParseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, FormatPretty) {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
