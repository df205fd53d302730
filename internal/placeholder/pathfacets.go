// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package placeholder

import (
	"path"
	"strings"
)

// The helpers below treat a trailing slash as part of the last element, so that
// a marked directory such as "a/b/" has the base name "b" and the directory "a".

func trimTrailingSlash(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}

	return p
}

func dirname(p string) string {
	if p == "" {
		return "."
	}

	return path.Dir(trimTrailingSlash(p))
}

func basename(p string) string {
	p = trimTrailingSlash(p)
	if p == "" || p == "/" {
		return ""
	}

	return path.Base(p)
}

// extname returns the extension including the dot.
// A base name whose only dot is the first character has no extension.
func extname(p string) string {
	base := basename(p)

	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}

	return base[i:]
}
