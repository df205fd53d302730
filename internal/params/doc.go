// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package params parses a flat key/value command line into an ordered set of parameters.
//
// The rules follow the common minimist conventions:
//
//	--key=value   key is value
//	--key value   key is value, when value does not look like a flag
//	--key         key is "true"
//	--no-key      key is "false"
//	-abc          a, b and c are "true"
//	--            everything after is positional
//
// Repeating a key accumulates its values. Positional arguments are stored under "_".
package params
