// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shellcommand runs a command line through the platform shell.
// On Unix-like systems the shell is $SHELL, or /bin/sh, invoked with -c.
// On Windows it is cmd.exe invoked with /C.
package shellcommand

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/everyfile/internal/commands"
	"github.com/matt-FFFFFF/everyfile/internal/commands/commandinpath"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // System32 is the directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // cmdExe is the name of the command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
	shellEnv             = "SHELL"
)

var _ commands.Commander = (*Commander)(nil)

// Commander creates shell commands. It implements the commands.Commander interface.
type Commander struct {
	Stderr io.Writer // Receives the standard error of every command, may be nil
}

// NewCommander creates a Commander that forwards the standard error of its commands to stderr.
func NewCommander(stderr io.Writer) *Commander {
	return &Commander{Stderr: stderr}
}

// Create creates a new runnable command and implements the commands.Commander interface.
func (c *Commander) Create(
	ctx context.Context, base *runbatch.BaseCommand, command string,
) (runbatch.Runnable, error) {
	cmd, err := New(ctx, base, command, c.Stderr)
	if err != nil {
		return nil, commands.NewErrCommandCreate(labelOf(base), err)
	}

	return cmd, nil
}

// New creates a runbatch.OSCommand that runs command through the platform shell.
// The standard output is captured in the result and the standard error is copied to stderr.
func New(
	ctx context.Context,
	base *runbatch.BaseCommand,
	command string,
	stderr io.Writer,
) (*runbatch.OSCommand, error) {
	if base == nil {
		return nil, commands.ErrNilBase
	}

	if command == "" {
		return nil, commands.ErrEmptyCommand
	}

	var osCommandArgs []string

	switch runtime.GOOS {
	case GOOSWindows:
		osCommandArgs = []string{commandSwitchWindows, command}
	default:
		osCommandArgs = []string{commandSwitchUnix, command}
	}

	return &runbatch.OSCommand{
		BaseCommand: base,
		Path:        defaultShell(ctx),
		Args:        osCommandArgs,
		Stderr:      stderr,
	}, nil
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	shell := os.Getenv(shellEnv)
	if shell == "" {
		return binSh
	}

	path, err := commandinpath.Find(shell)
	if err != nil {
		ctxlog.Warn(ctx, "SHELL not found, using default", "shell", shell, "default", binSh)
		return binSh
	}

	ctxlog.Debug(ctx, "using SHELL environment variable", "shell", path)

	return path
}

func labelOf(base *runbatch.BaseCommand) string {
	if base == nil {
		return ""
	}

	return base.GetLabel()
}
