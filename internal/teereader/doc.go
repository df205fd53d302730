// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a reader that captures what passes through it.
// It keeps a bounded copy of the data, tracks the last complete line for progress
// reporting, and can forward everything to a writer as it is read, such as the
// stderr of a child process being shown to the user while it is also recorded.
package teereader
