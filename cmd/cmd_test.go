// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/everyfile/internal/config"
	"github.com/matt-FFFFFF/everyfile/internal/pairing"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	c := NewRootCmd()
	c.Writer = &stdout
	c.ErrWriter = &stderr
	c.Version = "1.2.3 (commit: abc)"
	c.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := c.Run(context.Background(), append([]string{"everyfile"}, args...))

	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var ec cli.ExitCoder

	require.ErrorAs(t, err, &ec)
	assert.Equal(t, code, ec.ExitCode())
}

func posixOnly(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test requires a POSIX shell")
	}

	t.Setenv("SHELL", "/bin/sh")
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

func TestRootCmd_NoCommand(t *testing.T) {
	globbed := 0
	stubs := gostub.Stub(&pairing.FsFactory, func() afero.Fs {
		globbed++
		return afero.NewMemMapFs()
	})
	t.Cleanup(stubs.Reset)

	_, _, err := runCLI(t, "--src", "/src/", "--file", "*.txt")

	requireExitCode(t, err, 1)
	require.ErrorContains(t, err, `required parameter "run" not provided`)
	assert.Zero(t, globbed, "files must not be searched without a command")
}

func TestRootCmd_InvalidPattern(t *testing.T) {
	_, _, err := runCLI(t, "--src", "/src/", "--file", "[a", "--run", "echo")

	requireExitCode(t, err, 1)
	require.ErrorContains(t, err, "malformed glob pattern")
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := runCLI(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "everyfile")
	assert.Contains(t, stdout, "--not-file GLOB")
}

func TestRootCmd_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3 (commit: abc)")
}

func TestRootCmd_ConfigSchema(t *testing.T) {
	stdout, _, err := runCLI(t, "--config-schema")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"title": "everyfile config file"`)
	assert.Contains(t, stdout, `"not_file"`)

	stdout, _, err = runCLI(t, "--config-schema=markdown")

	require.NoError(t, err)
	assert.Contains(t, stdout, "| `run_js` | string | no |")

	_, _, err = runCLI(t, "--config-schema=xml")
	requireExitCode(t, err, 1)
}

func TestRootCmd_SingleRun(t *testing.T) {
	posixOnly(t)

	stdout, stderr, err := runCLI(t, "--run", "echo {{greeting}}", "--greeting", "hello")

	require.NoError(t, err)
	assert.Equal(t, "COMMAND: echo hello\nhello\n", stdout)
	assert.Empty(t, stderr)
}

func TestRootCmd_MissingBinding(t *testing.T) {
	stdout, _, err := runCLI(t, "--run", "cat {{src-file}}")

	requireExitCode(t, err, 1)
	require.ErrorContains(t, err, "cannot get source path to substitute {{src-file}} param")
	assert.Empty(t, stdout)
}

func TestRootCmd_NoFiles(t *testing.T) {
	memFs(t, "/src/a.txt")

	stdout, stderr, err := runCLI(t, "--src", "/src/", "--file", "*.md", "--run", "cat {{src-file}}")

	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "No one file has been found! Command didn't run.\n", stderr)
}

func TestRootCmd_FailureSummary(t *testing.T) {
	posixOnly(t)
	memFs(t, "/src/a.txt", "/src/b.txt")

	stdout, stderr, err := runCLI(t,
		"--src", "/src/", "--file", "*.txt", "--run", `test "{{file-name}}" = b`)

	requireExitCode(t, err, 1)
	assert.Equal(t, "COMMAND: test \"a\" = b\nCOMMAND: test \"b\" = b\n", stdout)
	assert.Contains(t, stderr, "1 of 2 commands failed")
	assert.Contains(t, stderr, "/src/a.txt")
	assert.NotContains(t, stderr, "/src/b.txt")
}

func TestRootCmd_SilentFailure(t *testing.T) {
	posixOnly(t)
	memFs(t, "/src/a.txt")

	stdout, stderr, err := runCLI(t, "--src", "/src/", "--file", "*.txt", "--run", "exit 2", "--silent")

	requireExitCode(t, err, 1)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestRootCmd_ScriptMode(t *testing.T) {
	memFs(t, "/src/a.txt", "/src/b.txt")

	stdout, _, err := runCLI(t, "--src", "/src/", "--file", "*.txt", "--not-file", "b.txt",
		"--run-js", `console.log("{{file}}".length)`)

	require.NoError(t, err)
	assert.Equal(t, "COMMAND: console.log(\"a.txt\".length)\n5\n", stdout)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	posixOnly(t)
	memFs(t, "/src/a.txt", "/src/b.md")

	stubs := gostub.Stub(&config.Getter, func(_ context.Context, url string) ([]byte, error) {
		assert.Equal(t, "everyfile.yaml", url)

		return []byte(`
src: /src/
file: ["*.txt", "*.md"]
run: echo {{prefix}}-{{file-name-ext}}
params:
  prefix: from-file
`), nil
	})
	t.Cleanup(stubs.Reset)

	stdout, _, err := runCLI(t, "--config", "everyfile.yaml", "--prefix", "from-cli")

	require.NoError(t, err)
	assert.Equal(t,
		"COMMAND: echo from-cli-a.txt\nfrom-cli-a.txt\nCOMMAND: echo from-cli-b.md\nfrom-cli-b.md\n",
		stdout)
}
