// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/signalbroker"
	"github.com/matt-FFFFFF/everyfile/internal/teereader"
)

const (
	maxBufferSize     = 8 * 1024 * 1024  // 8MB
	tickerInterval    = 10 * time.Second // Interval for the still running log message
	lastLineMaxLength = 120
)

var _ Runnable = (*OSCommand)(nil)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the output of the process could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrContextCancelled is returned when the process is killed because the context was cancelled.
	ErrContextCancelled = errors.New("context cancelled, process killed")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrSignalReceived is returned when an operating system signal was passed on to the process.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSCommand runs an operating system process.
// The standard output is captured into the result.
// The standard error is captured and, if Stderr is set, copied there while the process runs.
type OSCommand struct {
	*BaseCommand
	Args             []string       // Arguments to the command, do not include the executable name itself.
	Path             string         // The command to run (e.g. executable full path).
	SuccessExitCodes []int          // Exit codes that indicate success, defaults to 0.
	Stderr           io.Writer      // Receives the standard error of the process as it is written.
	sigCh            chan os.Signal // Channel to receive signals, allows mocking in test.
}

// Run implements the Runnable interface for OSCommand.
func (c *OSCommand) Run(ctx context.Context) Results {
	fullLabel := FullLabel(c)
	logger := ctxlog.Logger(ctx).
		With("runnableType", "OSCommand").
		With("label", fullLabel)

	logger.Debug("command info", "path", c.Path, "cwd", c.Cwd, "args", c.Args)

	successExitCodes := c.SuccessExitCodes
	if successExitCodes == nil {
		successExitCodes = []int{0}
	}

	sigCh := c.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(ctx, sigCh)
	}

	res := &Result{
		Label:  c.Label,
		Status: ResultStatusUnknown,
	}

	fail := func(err error) Results {
		res.Error = err
		res.ExitCode = -1
		res.Status = ResultStatusError

		return Results{res}
	}

	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	defer rOut.Close() //nolint:errcheck

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = wOut.Close()
		return fail(errors.Join(ErrFailedToCreatePipe, err))
	}

	defer rErr.Close() //nolint:errcheck

	args := slices.Concat([]string{filepath.Base(c.Path)}, c.Args)

	logger.Debug("starting process")

	ps, err := os.StartProcess(c.Path, args, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   env,
		Files: []*os.File{os.Stdin, wOut, wErr},
	})

	// The child has its own copies of the write ends.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		return fail(errors.Join(ErrCouldNotStartProcess, err))
	}

	startTime := time.Now()

	logger.Debug("process started", "pid", ps.Pid)

	stdout := teereader.New(rOut, teereader.WithMaxBytes(maxBufferSize))

	stderrOpts := []teereader.Option{teereader.WithMaxBytes(maxBufferSize)}
	if c.Stderr != nil {
		stderrOpts = append(stderrOpts, teereader.WithForward(c.Stderr))
	}

	stderr := teereader.New(rErr, stderrOpts...)

	// Drain both pipes while the process runs so it never blocks on a full pipe.
	var (
		readers        sync.WaitGroup
		outErr, errErr error
	)

	readers.Add(2) //nolint:mnd

	go func() {
		defer readers.Done()

		outErr = stdout.Drain()
	}()

	go func() {
		defer readers.Done()

		errErr = stderr.Drain()
	}()

	// The watchdog passes on signals to the process and kills it when the context is done.
	done := make(chan struct{})

	var (
		watchdog sync.WaitGroup
		reason   error // only written by the watchdog
	)

	watchdog.Add(1)

	go func() {
		defer watchdog.Done()

		signalCount := make(map[os.Signal]struct{})

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logger.Info("command still running",
					"elapsed", time.Since(startTime).Round(time.Second).String(),
					"lastLine", stdout.LastLine(lastLineMaxLength),
				)

			case s, ok := <-sigCh:
				if !ok {
					sigCh = nil
					continue
				}

				if _, seen := signalCount[s]; seen {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					killPs(ctx, ps)

					reason = ErrDuplicateSignalReceived

					return
				}

				signalCount[s] = struct{}{}

				logger.Info("received signal, passing it on", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

				reason = ErrSignalReceived

			case <-ctx.Done():
				logger.Info("context done, killing process")
				killPs(ctx, ps)

				reason = ErrContextCancelled

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	close(done)
	watchdog.Wait()

	// A killed shell may leave children behind that hold the pipes open.
	if errors.Is(reason, ErrContextCancelled) || errors.Is(reason, ErrDuplicateSignalReceived) {
		_ = rOut.Close()
		_ = rErr.Close()
	}

	readers.Wait()

	res.Error = errors.Join(psErr, reason)
	res.ExitCode = -1

	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "duration", time.Since(startTime).String())

	res.StdOut = stdout.Bytes()
	res.StdErr = stderr.Bytes()

	for _, e := range []error{outErr, errErr} {
		if e != nil && !errors.Is(e, os.ErrClosed) {
			res.Error = errors.Join(res.Error, ErrFailedToReadBuffer, e)
		}
	}

	if stdout.Overflowed() || stderr.Overflowed() {
		res.Error = errors.Join(res.Error, ErrBufferOverflow)
	}

	if err := stderr.Err(); err != nil {
		logger.Debug("could not forward stderr", "error", err)
	}

	switch {
	case res.Error == nil && slices.Contains(successExitCodes, res.ExitCode):
		logger.Debug("process exit code indicates success", "exitCode", res.ExitCode)
		res.Status = ResultStatusSuccess
	default:
		logger.Debug("process error", "error", res.Error, "exitCode", res.ExitCode)

		if res.ExitCode == 0 {
			res.ExitCode = -1
		}

		res.Status = ResultStatusError
	}

	return Results{res}
}

// killPs kills the process.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}
