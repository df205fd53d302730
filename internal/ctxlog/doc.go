// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger that can be used to log messages.
// It uses the slog package for structured logging and supports different log levels.
//
// The default is a pretty console handler on stderr to format the log messages in a human-readable way.
// The level is read from the EVERYFILE_LOG_LEVEL environment variable and defaults to WARN.
package ctxlog
