// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrFunctionCmdPanic is the error returned when a function command panics.
// It is constructed with the value that caused the panic.
type ErrFunctionCmdPanic struct {
	v any
}

// Error implements the error interface for ErrFunctionCmdPanic.
func (e *ErrFunctionCmdPanic) Error() string {
	prefix := "function command panic:"
	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value if it is an error.
func (e *ErrFunctionCmdPanic) Unwrap() error {
	if err, ok := e.v.(error); ok {
		return err
	}

	return nil
}

// NewErrFunctionCmdPanic creates a new ErrFunctionCmdPanic with the given value.
func NewErrFunctionCmdPanic(v any) error {
	return &ErrFunctionCmdPanic{v: v}
}

// ExitCoder is implemented by errors that carry an exit code for the result.
type ExitCoder interface {
	ExitCode() int
}

// FunctionCommandFunc is the function run by FunctionCommand.
// The function should return when ctx is done.
type FunctionCommandFunc func(ctx context.Context) error

// FunctionCommand is a command that runs a Go function. It implements the Runnable interface.
type FunctionCommand struct {
	*BaseCommand
	Func FunctionCommandFunc // The function to run
}

// Run implements the Runnable interface for FunctionCommand.
// A panic in the function is recovered and reported as an ErrFunctionCmdPanic.
func (f *FunctionCommand) Run(ctx context.Context) Results {
	fullLabel := FullLabel(f)
	logger := ctxlog.Logger(ctx).
		With("runnableType", "FunctionCommand").
		With("label", fullLabel)

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return Results{{Label: f.Label, Status: ResultStatusSuccess}}
	}

	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("function command panicked", "panic", r)
				errCh <- NewErrFunctionCmdPanic(r)
			}
		}()

		logger.Debug("executing function")

		errCh <- f.Func(ctx)
	}()

	var err error

	select {
	case err = <-errCh:
	case <-ctx.Done():
		logger.Debug("function command context cancelled", "error", ctx.Err())

		err = ctx.Err()
	}

	if err != nil {
		exitCode := -1

		var ec ExitCoder
		if errors.As(err, &ec) {
			exitCode = ec.ExitCode()
		}

		logger.Debug("function command failed", "error", err, "exitCode", exitCode)

		return Results{{
			Label:    f.Label,
			ExitCode: exitCode,
			Error:    err,
			Status:   ResultStatusError,
		}}
	}

	logger.Debug("function command completed successfully")

	return Results{{Label: f.Label, Status: ResultStatusSuccess}}
}
