// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commandinpath searches the system PATH for an executable.
package commandinpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

const (
	goosWindows = "windows"
	exeSuffix   = ".exe"
	execBits    = 0o111
)

// ErrNotFound is returned when the command is not found in the PATH.
var ErrNotFound = errors.New("command not found in PATH")

// FsFactory creates the filesystem used to search the PATH.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Find returns the full path of command.
// A command that already contains a path separator is returned unchanged.
// On Windows, there is no need to add .exe to the command name.
func Find(command string) (string, error) {
	if command == "" {
		return "", ErrNotFound
	}

	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		return command, nil
	}

	if runtime.GOOS == goosWindows && filepath.Ext(command) == "" {
		command += exeSuffix
	}

	fsys := FsFactory()

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, command)

		info, err := fsys.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		if runtime.GOOS != goosWindows && info.Mode()&execBits == 0 {
			continue
		}

		return candidate, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, command)
}
