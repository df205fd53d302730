// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package placeholder

import (
	"regexp"
	"strings"

	"github.com/matt-FFFFFF/everyfile/internal/params"
)

// Token names with a fixed meaning.
const (
	SrcFile     = "src-file"
	DestFile    = "dest-file"
	File        = "file"
	FilePath    = "file-path"
	FileName    = "file-name"
	FileExt     = "file-ext"
	FileNameExt = "file-name-ext"
	Run         = "run"
	RunJS       = "run-js"
)

var tokenRe = regexp.MustCompile(`{{([^{}]+)}}`)

// Anchors are the paths a single resolution may use. Empty strings are absent.
type Anchors struct {
	SrcDir   string
	SrcFile  string
	DestDir  string
	DestFile string
}

// IsFacet reports whether name is one of the path facet tokens.
func IsFacet(name string) bool {
	switch name {
	case File, FilePath, FileName, FileExt, FileNameExt:
		return true
	default:
		return false
	}
}

// IsReserved reports whether name is a token that is never substituted.
func IsReserved(name string) bool {
	return name == Run || name == RunJS
}

// Resolve replaces every token in template.
// It stops at the first token that cannot be resolved and returns a *MissingBindingError.
func Resolve(template string, bindings *params.Params, anchors Anchors) (string, error) {
	locs := tokenRe.FindAllStringSubmatchIndex(template, -1)
	if len(locs) == 0 {
		return template, nil
	}

	sb := strings.Builder{}
	sb.Grow(len(template))

	last := 0

	for _, loc := range locs {
		sb.WriteString(template[last:loc[0]])

		v, err := resolveToken(template[loc[2]:loc[3]], template[loc[0]:loc[1]], bindings, anchors)
		if err != nil {
			return "", err
		}

		sb.WriteString(v)

		last = loc[1]
	}

	sb.WriteString(template[last:])

	return sb.String(), nil
}

func resolveToken(name, literal string, bindings *params.Params, a Anchors) (string, error) {
	switch {
	case name == SrcFile:
		if a.SrcFile == "" {
			return "", &MissingBindingError{Name: name}
		}

		return a.SrcFile, nil

	case name == DestFile:
		if a.DestFile == "" {
			return "", &MissingBindingError{Name: name}
		}

		return a.DestFile, nil

	case IsFacet(name):
		rel, ok := a.relative()
		if !ok {
			return "", &MissingBindingError{Name: name}
		}

		return facet(name, rel), nil

	case IsReserved(name):
		return literal, nil
	}

	if v, ok := bindings.Get(name); ok {
		return v, nil
	}

	return literal, nil
}

// relative strips the directory from the anchor file by byte count.
// The directory is expected to be a literal prefix of the file.
func (a Anchors) relative() (string, bool) {
	file, dir := a.SrcFile, a.SrcDir
	if file == "" {
		file, dir = a.DestFile, a.DestDir
	}

	if file == "" {
		return "", false
	}

	if len(dir) >= len(file) {
		return "", true
	}

	return file[len(dir):], true
}

func facet(name, rel string) string {
	switch name {
	case FilePath:
		return dirname(rel)
	case FileName:
		base := basename(rel)
		return base[:len(base)-len(extname(rel))]
	case FileExt:
		return strings.TrimPrefix(extname(rel), ".")
	case FileNameExt:
		return basename(rel)
	default:
		return rel
	}
}
