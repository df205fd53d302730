// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs commands and collects their results.
//
// An OSCommand runs an operating system process, and a FunctionCommand runs a Go function.
// Both report a Result with the exit code, any error and the captured output.
// Results form a tree that can be written as text, which is used to report failed commands.
package runbatch
