// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
)

var (
	// ErrEmptyCommand is returned when a command string is empty.
	ErrEmptyCommand = errors.New("command is empty")
	// ErrNilBase is returned when a command is created without a base command.
	ErrNilBase = errors.New("command cannot be created without a base command")
)

// Commander creates the runnable that executes one resolved command.
type Commander interface {
	Create(ctx context.Context, base *runbatch.BaseCommand, command string) (runbatch.Runnable, error)
}

// CommanderFunc adapts a function to the Commander interface.
type CommanderFunc func(ctx context.Context, base *runbatch.BaseCommand, command string) (runbatch.Runnable, error)

// Create implements the Commander interface.
func (f CommanderFunc) Create(
	ctx context.Context, base *runbatch.BaseCommand, command string,
) (runbatch.Runnable, error) {
	return f(ctx, base, command)
}

// ErrCommandCreate is returned when a command cannot be created.
// It includes the command label for easier debugging.
type ErrCommandCreate struct {
	cmdName string
	err     error
}

// Error implements the error interface for ErrCommandCreate.
func (e *ErrCommandCreate) Error() string {
	if e.err == nil {
		return fmt.Sprintf("failed to create command %q", e.cmdName)
	}

	return fmt.Sprintf("failed to create command %q: %s", e.cmdName, e.err.Error())
}

// Unwrap returns the underlying error.
func (e *ErrCommandCreate) Unwrap() error {
	return e.err
}

// NewErrCommandCreate creates a new ErrCommandCreate error.
func NewErrCommandCreate(cmdName string, err error) error {
	return &ErrCommandCreate{cmdName: cmdName, err: err}
}
