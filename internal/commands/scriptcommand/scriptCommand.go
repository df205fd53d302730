// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scriptcommand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/buffer"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/process"
	"github.com/dop251/goja_nodejs/require"
	"github.com/dop251/goja_nodejs/url"
	"github.com/dop251/goja_nodejs/util"
	"github.com/matt-FFFFFF/everyfile/internal/commands"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	wrapperPrefix = "(function (require) { "
	wrapperSuffix = "\n})"
	requireName   = "require"
)

var (
	// ErrCompile is returned when the script is not valid JavaScript.
	ErrCompile = errors.New("failed to compile script")
	// ErrScript is returned when the script throws.
	ErrScript = errors.New("script error")
	// ErrInterrupted is returned when the script is stopped because the context is done.
	ErrInterrupted = errors.New("script interrupted")
)

// nativeModules are available to require by name in every script.
var nativeModules = map[string]require.ModuleLoader{
	util.ModuleName:    util.Require,
	buffer.ModuleName:  buffer.Require,
	url.ModuleName:     url.Require,
	process.ModuleName: process.Require,
}

// FsFactory creates the filesystem that require loads modules from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

var _ commands.Commander = (*Commander)(nil)

// Commander creates script commands. It implements the commands.Commander interface.
type Commander struct {
	Stdout io.Writer // console.log and console.info
	Stderr io.Writer // console.warn and console.error
}

// NewCommander creates a Commander whose console writes to stdout and stderr.
// Nil writers discard the output.
func NewCommander(stdout, stderr io.Writer) *Commander {
	return &Commander{Stdout: stdout, Stderr: stderr}
}

// Create creates a new runnable command and implements the commands.Commander interface.
func (c *Commander) Create(
	_ context.Context, base *runbatch.BaseCommand, command string,
) (runbatch.Runnable, error) {
	cmd, err := New(base, command, c.Stdout, c.Stderr)
	if err != nil {
		label := ""
		if base != nil {
			label = base.GetLabel()
		}

		return nil, commands.NewErrCommandCreate(label, err)
	}

	return cmd, nil
}

// New creates a runbatch.FunctionCommand that evaluates script when run.
func New(base *runbatch.BaseCommand, script string, stdout, stderr io.Writer) (*runbatch.FunctionCommand, error) {
	if base == nil {
		return nil, commands.ErrNilBase
	}

	if script == "" {
		return nil, commands.ErrEmptyCommand
	}

	if stdout == nil {
		stdout = io.Discard
	}

	if stderr == nil {
		stderr = io.Discard
	}

	s := &evaluator{
		name:   base.GetLabel(),
		script: script,
		out:    &printer{stdout: stdout, stderr: stderr},
		fsys:   FsFactory(),
	}

	return &runbatch.FunctionCommand{
		BaseCommand: base,
		Func:        s.run,
	}, nil
}

type evaluator struct {
	name   string
	script string
	out    *printer
	fsys   afero.Fs
}

func (e *evaluator) run(ctx context.Context) error {
	vm := goja.New()

	registry := require.NewRegistry(require.WithLoader(e.load))
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(e.out))

	for name, loader := range nativeModules {
		registry.RegisterNativeModule(name, loader)
	}

	registry.Enable(vm)
	console.Enable(vm)
	buffer.Enable(vm)
	url.Enable(vm)
	process.Enable(vm)

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	prg, err := goja.Compile(e.name, wrapperPrefix+e.script+wrapperSuffix, false)
	if err != nil {
		return errors.Join(ErrCompile, err)
	}

	v, err := vm.RunProgram(prg)
	if err != nil {
		return e.wrap(ctx, err)
	}

	fn, ok := goja.AssertFunction(v)
	if !ok {
		return fmt.Errorf("%w: wrapper is not a function", ErrCompile)
	}

	ctxlog.Debug(ctx, "evaluating script", "name", e.name)

	if _, err := fn(goja.Undefined(), vm.Get(requireName)); err != nil {
		return e.wrap(ctx, err)
	}

	return nil
}

func (e *evaluator) wrap(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return errors.Join(ErrInterrupted, ctx.Err())
	}

	return errors.Join(ErrScript, err)
}

// load reads module source for require.
func (e *evaluator) load(path string) ([]byte, error) {
	data, err := afero.ReadFile(e.fsys, filepath.FromSlash(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, require.ModuleFileDoesNotExistError
		}

		return nil, err //nolint:wrapcheck
	}

	return data, nil
}

// printer sends console output to the configured writers.
type printer struct {
	stdout io.Writer
	stderr io.Writer
}

func (p *printer) Log(s string) {
	_, _ = fmt.Fprintln(p.stdout, s)
}

func (p *printer) Warn(s string) {
	_, _ = fmt.Fprintln(p.stderr, s)
}

func (p *printer) Error(s string) {
	_, _ = fmt.Fprintln(p.stderr, s)
}
