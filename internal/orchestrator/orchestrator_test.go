// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/everyfile/internal/commands"
	"github.com/matt-FFFFFF/everyfile/internal/commands/scriptcommand"
	"github.com/matt-FFFFFF/everyfile/internal/config"
	"github.com/matt-FFFFFF/everyfile/internal/pairing"
	"github.com/matt-FFFFFF/everyfile/internal/params"
	"github.com/matt-FFFFFF/everyfile/internal/placeholder"
	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunnable reports a canned result.
type fakeRunnable struct {
	*runbatch.BaseCommand
	stdout string
	fail   bool
	err    error
	run    func(ctx context.Context)
}

func (f *fakeRunnable) Run(ctx context.Context) runbatch.Results {
	if f.run != nil {
		f.run(ctx)
	}

	res := &runbatch.Result{
		Label:  f.Label,
		StdOut: []byte(f.stdout),
		Status: runbatch.ResultStatusSuccess,
	}

	if f.fail {
		res.ExitCode = 1
		res.Error = f.err
		res.Status = runbatch.ResultStatusError

		if res.Error == nil {
			res.Error = errors.New("exit status 1")
		}
	}

	return runbatch.Results{res}
}

// recorder is a commander that records every command it creates.
type recorder struct {
	commands []string
	labels   []string
	stdout   func(command string) string
	fail     func(command string) bool
	err      error
	run      func(ctx context.Context)
}

func (r *recorder) Create(_ context.Context, base *runbatch.BaseCommand, command string) (runbatch.Runnable, error) {
	r.commands = append(r.commands, command)
	r.labels = append(r.labels, base.GetLabel())

	f := &fakeRunnable{BaseCommand: base, run: r.run, err: r.err}
	if r.stdout != nil {
		f.stdout = r.stdout(command)
	}

	if r.fail != nil {
		f.fail = r.fail(command)
	}

	return f, nil
}

func memFs(t *testing.T, files ...string) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, f, []byte(f), 0o644))
	}

	stubs := gostub.Stub(&pairing.FsFactory, func() afero.Fs { return fsys })
	t.Cleanup(stubs.Reset)
}

func newTestOrchestrator(cfg config.Config, c commands.Commander) (*Orchestrator, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	if cfg.Bindings == nil {
		cfg.Bindings = params.New()
	}

	return New(cfg, WithStdout(&stdout), WithStderr(&stderr), WithCommander(c)), &stdout, &stderr
}

func TestRun_SingleRun(t *testing.T) {
	rec := &recorder{stdout: func(string) string { return "done\n" }}
	o, stdout, stderr := newTestOrchestrator(config.Config{
		Command:  "echo {{name}} {{missing}} {{run}}",
		Bindings: params.FromMap(map[string]string{"name": "world"}),
	}, rec)

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, []string{"echo world {{missing}} {{run}}"}, rec.commands)
	assert.Equal(t, []string{SingleRunLabel}, rec.labels)
	assert.Equal(t, "COMMAND: echo world {{missing}} {{run}}\ndone\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_SingleRunMissingBinding(t *testing.T) {
	rec := &recorder{}
	o, stdout, _ := newTestOrchestrator(config.Config{Command: "cat {{file}}"}, rec)

	results, err := o.Run(context.Background())

	var missing *placeholder.MissingBindingError

	require.ErrorAs(t, err, &missing)
	assert.Equal(t, placeholder.File, missing.Name)
	assert.Empty(t, results)
	assert.Empty(t, rec.commands)
	assert.Empty(t, stdout.String())
}

func TestRun_PerFile(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt", "/src/c.md", "/src/sub/d.txt")

	rec := &recorder{}
	o, stdout, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		DestDir: "/out/",
		Include: []string{"**/*.txt"},
		Exclude: []string{"sub/*"},
		Command: "cp {{src-file}} {{dest-file}} # {{file-path}} {{file-name}} {{file-ext}}",
	}, rec)

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{
		"cp /src/a.txt /out/a.txt # . a txt",
		"cp /src/b.txt /out/b.txt # . b txt",
	}, rec.commands)
	assert.Equal(t, []string{"/src/a.txt", "/src/b.txt"}, rec.labels)
	assert.Equal(t,
		"COMMAND: cp /src/a.txt /out/a.txt # . a txt\nCOMMAND: cp /src/b.txt /out/b.txt # . b txt\n",
		stdout.String())
}

func TestRun_EmptyIncludeIsSrcDir(t *testing.T) {
	memFs(t, "/src/a.txt")

	rec := &recorder{}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src",
		Command: "ls {{src-file}}",
	}, rec)

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ls /src/"}, rec.commands)
}

func TestRun_NoFiles(t *testing.T) {
	memFs(t, "/src/a.txt")

	for _, silent := range []bool{false, true} {
		rec := &recorder{}
		o, stdout, stderr := newTestOrchestrator(config.Config{
			SrcDir:  "/src/",
			Include: []string{"*.md"},
			Command: "cat {{src-file}}",
			Silent:  silent,
		}, rec)

		results, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Empty(t, rec.commands)
		assert.Empty(t, stdout.String())

		if silent {
			assert.Empty(t, stderr.String())
		} else {
			assert.Equal(t, NoFilesWarning+"\n", stderr.String())
		}
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt", "/src/c.txt")

	rec := &recorder{fail: func(c string) bool { return c == "run a.txt" }}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		Include: []string{"*.txt"},
		Command: "run {{file}}",
	}, rec)

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"run a.txt", "run b.txt", "run c.txt"}, rec.commands)
	assert.True(t, results.HasError())
	require.Len(t, results.Failed(), 1)
	assert.Equal(t, "/src/a.txt", results.Failed()[0].Label)
}

func TestRun_AbortsOnMissingBinding(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt")

	rec := &recorder{}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		Include: []string{"*.txt"},
		Command: "cp {{src-file}} {{dest-file}}",
	}, rec)

	_, err := o.Run(context.Background())
	require.ErrorIs(t, err, placeholder.ErrMissingBinding)
	assert.Contains(t, err.Error(), "{{dest-file}}")
	assert.Empty(t, rec.commands)
}

func TestRun_GlobError(t *testing.T) {
	memFs(t, "/src/a.txt")

	rec := &recorder{}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		Include: []string{"[a"},
		Command: "cat {{src-file}}",
	}, rec)

	_, err := o.Run(context.Background())
	require.ErrorIs(t, err, pairing.ErrGlob)
	assert.Empty(t, rec.commands)
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{run: func(context.Context) { cancel() }}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		Include: []string{"*.txt"},
		Command: "cat {{src-file}}",
	}, rec)

	results, err := o.Run(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"cat /src/a.txt"}, rec.commands)
}

func TestRun_StopsAfterSignal(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt")

	rec := &recorder{
		fail: func(string) bool { return true },
		err:  runbatch.ErrSignalReceived,
	}
	o, _, _ := newTestOrchestrator(config.Config{
		SrcDir:  "/src/",
		Include: []string{"*.txt"},
		Command: "cat {{src-file}}",
	}, rec)

	results, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
	require.ErrorIs(t, err, runbatch.ErrSignalReceived)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"cat /src/a.txt"}, rec.commands)
}

func TestRun_Silent(t *testing.T) {
	rec := &recorder{stdout: func(string) string { return "output\n" }}
	o, stdout, stderr := newTestOrchestrator(config.Config{
		Command: "echo hi",
		Silent:  true,
	}, rec)

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_CreateErrorIsFailedDispatch(t *testing.T) {
	createErr := errors.New("nope")
	c := commands.CommanderFunc(func(context.Context, *runbatch.BaseCommand, string) (runbatch.Runnable, error) {
		return nil, createErr
	})

	o, _, _ := newTestOrchestrator(config.Config{Command: "x"}, c)

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Error, createErr)
	assert.Equal(t, runbatch.ResultStatusError, results[0].Status)
}

func TestRun_ShellMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test requires a POSIX shell")
	}

	t.Setenv("SHELL", "/bin/sh")

	var stdout, stderr bytes.Buffer

	o := New(config.Config{
		Command:  `echo "{{greeting}}"; echo warn >&2; exit {{code}}`,
		Mode:     config.ModeShell,
		Bindings: params.FromMap(map[string]string{"greeting": "hello there", "code": "3"}),
	}, WithStdout(&stdout), WithStderr(&stderr))

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 3, results[0].ExitCode)
	assert.Equal(t, "COMMAND: echo \"hello there\"; echo warn >&2; exit 3\nhello there\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())
}

func TestRun_ScriptMode(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.json")

	stubs := gostub.Stub(&scriptcommand.FsFactory, func() afero.Fs {
		fsys := afero.NewMemMapFs()
		_ = afero.WriteFile(fsys, "/lib/upper.js", []byte(`module.exports = (s) => s.toUpperCase();`), 0o644)

		return fsys
	})
	t.Cleanup(stubs.Reset)

	var stdout, stderr bytes.Buffer

	o := New(config.Config{
		SrcDir:   "/src/",
		Include:  []string{"*"},
		Command:  `const up = require("/lib/upper.js"); console.log(up("{{file-name-ext}}"));`,
		Mode:     config.ModeScript,
		Bindings: params.New(),
	}, WithStdout(&stdout), WithStderr(&stderr))

	results, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results.HasError())

	assert.Equal(t,
		`COMMAND: const up = require("/lib/upper.js"); console.log(up("a.txt"));`+"\nA.TXT\n"+
			`COMMAND: const up = require("/lib/upper.js"); console.log(up("b.json"));`+"\nB.JSON\n",
		stdout.String())
}
