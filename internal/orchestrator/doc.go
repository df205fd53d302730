// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package orchestrator runs the command template of a config.Config.
//
// Without a source directory the template is resolved once and run once.
// With a source directory the template is resolved and run for every matching file, in order.
// A failed command does not stop the run, a template that cannot be resolved does.
package orchestrator
