// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pairing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/spf13/afero"
)

// FsFactory returns the filesystem used for expansion. Tests replace it with an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ErrGlob is returned when a pattern is malformed or, in strict mode, when the filesystem cannot be read.
var ErrGlob = errors.New("glob expansion failed")

// GlobOptions are applied to every pattern expansion.
type GlobOptions struct {
	Mark   bool // append "/" to matched directories
	Strict bool // fail on filesystem errors instead of skipping them
	Dot    bool // let wildcards match names starting with "."
}

// FindFiles expands the include patterns against srcDir and removes every path
// that is also produced by the exclude patterns.
// The include results are concatenated in pattern order and duplicates are kept.
func FindFiles(ctx context.Context, srcDir string, include, exclude []string, opts GlobOptions) ([]string, error) {
	if len(include) == 0 {
		include = []string{""}
	}

	files, err := search(ctx, srcDir, include, opts)
	if err != nil {
		return nil, err
	}

	if !hasPattern(exclude) {
		return files, nil
	}

	excluded, err := search(ctx, srcDir, exclude, opts)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, f := range excluded {
		skip[f] = struct{}{}
	}

	return slices.DeleteFunc(files, func(f string) bool {
		_, ok := skip[f]
		return ok
	}), nil
}

// DestFor rebases srcFile from srcDir onto destDir.
// It returns an empty string when destDir is empty.
func DestFor(srcDir, destDir, srcFile string) string {
	if destDir == "" {
		return ""
	}

	if len(srcDir) >= len(srcFile) {
		return destDir
	}

	return destDir + srcFile[len(srcDir):]
}

func hasPattern(patterns []string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool { return p != "" })
}

func search(ctx context.Context, dir string, patterns []string, opts GlobOptions) ([]string, error) {
	fsys := FsFactory()

	var result []string

	for _, p := range patterns {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		matches, err := expand(fsys, dir+p, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", ErrGlob, dir+p, err)
		}

		ctxlog.Debug(ctx, "pattern expanded", "pattern", dir+p, "matches", len(matches))

		result = append(result, matches...)
	}

	return result, nil
}

// expand returns the sorted matches of a single pattern.
func expand(fsys afero.Fs, pattern string, opts GlobOptions) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}

	base, rest := doublestar.SplitPattern(pattern)
	prefix := pattern[:len(pattern)-len(rest)]

	if rest == "" || !hasMeta(rest) {
		return literal(fsys, pattern, opts)
	}

	if !doublestar.ValidatePattern(rest) {
		return nil, doublestar.ErrBadPattern
	}

	root := afero.Fs(afero.NewBasePathFs(fsys, base))
	if path.Clean(base) == "." {
		root = fsys
	}

	iofs := afero.NewIOFS(root)

	globOpts := []doublestar.GlobOption{}
	if opts.Strict {
		globOpts = append(globOpts, doublestar.WithFailOnIOErrors())
	}

	found, err := doublestar.Glob(iofs, rest, globOpts...)
	if err != nil {
		if isNoMatch(err) {
			return nil, nil
		}

		return nil, err
	}

	matches := make([]string, 0, len(found))

	for _, m := range found {
		if !opts.Dot && hidden(rest, m) {
			continue
		}

		full := prefix + m

		if opts.Mark {
			if fi, err := fs.Stat(iofs, m); err == nil && fi.IsDir() && !strings.HasSuffix(full, "/") {
				full += "/"
			}
		}

		matches = append(matches, full)
	}

	slices.Sort(matches)

	return matches, nil
}

// literal handles a pattern without wildcards, which matches itself when it exists.
func literal(fsys afero.Fs, pattern string, opts GlobOptions) ([]string, error) {
	fi, err := fsys.Stat(path.Clean(unescape(pattern)))
	if err != nil {
		if opts.Strict && !isNoMatch(err) {
			return nil, err
		}

		return nil, nil
	}

	if strings.HasSuffix(pattern, "/") && !fi.IsDir() {
		return nil, nil
	}

	if opts.Mark && fi.IsDir() && !strings.HasSuffix(pattern, "/") {
		return []string{pattern + "/"}, nil
	}

	return []string{pattern}, nil
}

// isNoMatch reports whether err means the path cannot exist, rather than that it could not be read.
func isNoMatch(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ELOOP) ||
		errors.Is(err, syscall.ENAMETOOLONG)
}

// hidden reports whether match has a segment starting with "." that no pattern
// segment starting with "." accounts for.
func hidden(pattern, match string) bool {
	var dotSegments []string

	for _, s := range strings.Split(pattern, "/") {
		if strings.HasPrefix(s, ".") {
			dotSegments = append(dotSegments, s)
		}
	}

	for _, seg := range strings.Split(match, "/") {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}

		if !slices.ContainsFunc(dotSegments, func(p string) bool {
			ok, _ := doublestar.Match(p, seg)
			return ok
		}) {
			return true
		}
	}

	return false
}

func hasMeta(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '*', '?', '[', '{':
			return true
		}
	}

	return false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	sb := strings.Builder{}

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}
