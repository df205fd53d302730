// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands defines how a resolved command string becomes a runnable.
// The sub packages provide the implementations: shellcommand runs the command through the
// platform shell and scriptcommand evaluates it as JavaScript.
package commands
