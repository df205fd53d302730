// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package scriptcommand evaluates a command string as JavaScript.
//
// Every evaluation gets a fresh runtime, so nothing leaks from one command to the next.
// The command is the body of a function that receives a CommonJS style require,
// which loads modules through an afero filesystem. console writes to the configured writers.
package scriptcommand
