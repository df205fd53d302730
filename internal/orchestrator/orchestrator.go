// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/everyfile/internal/commands"
	"github.com/matt-FFFFFF/everyfile/internal/commands/scriptcommand"
	"github.com/matt-FFFFFF/everyfile/internal/commands/shellcommand"
	"github.com/matt-FFFFFF/everyfile/internal/config"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/pairing"
	"github.com/matt-FFFFFF/everyfile/internal/placeholder"
	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
)

const (
	// NoFilesWarning is written to stderr when the source directory has no matching files.
	NoFilesWarning = "No one file has been found! Command didn't run."
	// CommandEchoPrefix precedes every resolved command written to stdout.
	CommandEchoPrefix = "COMMAND: "
	// SingleRunLabel is the result label of the command when there is no source directory.
	SingleRunLabel = "command"
)

// ErrCancelled is returned when the context is done, or a command received a signal,
// before every file was processed.
var ErrCancelled = errors.New("run cancelled")

// Orchestrator runs a command template once, or once per matching file.
type Orchestrator struct {
	cfg       config.Config
	stdout    io.Writer
	stderr    io.Writer
	commander commands.Commander
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStdout sets the writer for echoed commands and command output. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdout = w
	}
}

// WithStderr sets the writer for warnings and the standard error of commands. The default is os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.stderr = w
	}
}

// WithCommander replaces the commander that is chosen from the config mode.
func WithCommander(c commands.Commander) Option {
	return func(o *Orchestrator) {
		o.commander = c
	}
}

// New creates an Orchestrator for cfg. The config should have passed config.Validate.
func New(cfg config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.commander == nil {
		o.commander = commanderFor(cfg.Mode, o.stdout, o.stderr)
	}

	return o
}

func commanderFor(mode config.Mode, stdout, stderr io.Writer) commands.Commander {
	if mode == config.ModeScript {
		return scriptcommand.NewCommander(stdout, stderr)
	}

	return shellcommand.NewCommander(stderr)
}

// Run runs the command and returns one result per command run.
// The error is non-nil when the run could not be completed: a glob pattern failed,
// a placeholder could not be resolved or the context is done.
// A command that fails is only reported in its result.
func (o *Orchestrator) Run(ctx context.Context) (runbatch.Results, error) {
	logger := ctxlog.Logger(ctx).
		With("mode", o.cfg.Mode.String())

	if o.cfg.SrcDir == "" {
		logger.Debug("no source directory, running once")
		return o.dispatch(ctx, SingleRunLabel, placeholder.Anchors{})
	}

	files, err := pairing.FindFiles(ctx, o.cfg.SrcDir, o.cfg.Include, o.cfg.Exclude, pairing.GlobOptions{
		Mark:   true,
		Strict: true,
		Dot:    o.cfg.Dot,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	logger.Debug("files found", "srcDir", o.cfg.SrcDir, "count", len(files))

	if len(files) == 0 {
		if !o.cfg.Silent {
			o.write(ctx, o.stderr, NoFilesWarning+"\n")
		}

		return nil, nil
	}

	results := make(runbatch.Results, 0, len(files))

	for i, srcFile := range files {
		if err := ctx.Err(); err != nil {
			logger.Info("run cancelled", "done", i, "remaining", len(files)-i)
			return results, errors.Join(ErrCancelled, err)
		}

		anchors := placeholder.Anchors{
			SrcDir:   o.cfg.SrcDir,
			SrcFile:  srcFile,
			DestDir:  o.cfg.DestDir,
			DestFile: pairing.DestFor(o.cfg.SrcDir, o.cfg.DestDir, srcFile),
		}

		res, err := o.dispatch(ctx, srcFile, anchors)
		results = append(results, res...)

		if err != nil {
			return results, err
		}

		if signalled(res) {
			logger.Info("command received a signal, stopping", "file", srcFile, "remaining", len(files)-i-1)
			return results, errors.Join(ErrCancelled, runbatch.ErrSignalReceived)
		}
	}

	logger.Debug("all files processed", "count", len(files), "failed", len(results.Failed()))

	return results, nil
}

// dispatch resolves the template and runs it.
// Only a resolution failure is returned as an error.
func (o *Orchestrator) dispatch(ctx context.Context, label string, anchors placeholder.Anchors) (runbatch.Results, error) {
	command, err := placeholder.Resolve(o.cfg.Command, o.cfg.Bindings, anchors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	if !o.cfg.Silent {
		o.write(ctx, o.stdout, CommandEchoPrefix+command+"\n")
	}

	r, err := o.commander.Create(ctx, runbatch.NewBaseCommand(label, "", nil), command)
	if err != nil {
		ctxlog.Debug(ctx, "could not create command", "label", label, "error", err)

		return runbatch.Results{{
			Label:    label,
			ExitCode: -1,
			Error:    err,
			Status:   runbatch.ResultStatusError,
		}}, nil
	}

	results := r.Run(ctx)

	if !o.cfg.Silent {
		for _, res := range results {
			o.write(ctx, o.stdout, string(res.StdOut))
		}
	}

	return results, nil
}

// signalled reports whether a signal was passed on to the command.
func signalled(results runbatch.Results) bool {
	for _, r := range results {
		if errors.Is(r.Error, runbatch.ErrSignalReceived) {
			return true
		}
	}

	return false
}

func (o *Orchestrator) write(ctx context.Context, w io.Writer, s string) {
	if s == "" {
		return
	}

	if _, err := io.WriteString(w, s); err != nil {
		ctxlog.Warn(ctx, "could not write output", "error", err)
	}
}
