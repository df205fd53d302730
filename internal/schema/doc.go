// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema generates a JSON schema and Markdown documentation from a struct definition.
//
// Field names come from the yaml tag. A field is required unless the tag has omitempty.
// The docdesc tag holds the description and the doctype tag overrides the JSON type,
// for example "string|array" for a field that accepts a string or a list of strings.
package schema
