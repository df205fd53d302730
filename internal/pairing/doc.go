// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pairing finds the source files to iterate over and pairs each one with its destination path.
//
// Patterns are appended to the source directory as plain strings, so the directory
// is normally given with a trailing slash, e.g. "./in/" and "**/*.txt".
// Matches keep the source directory as a literal prefix, which is what DestFor relies on.
package pairing
