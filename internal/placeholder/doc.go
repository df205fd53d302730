// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package placeholder substitutes {{name}} tokens in a command template.
//
// The file related tokens are src-file, dest-file and the path facets
// file, file-path, file-name, file-ext and file-name-ext.
// The facets are computed from the source file relative to the source directory,
// or from the destination file relative to the destination directory when there is no source file.
// The tokens run and run-js are never substituted.
// Any other token is replaced by the binding of the same name, or left as it is.
package placeholder
