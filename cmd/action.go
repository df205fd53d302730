// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/everyfile/internal/config"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/orchestrator"
	"github.com/matt-FFFFFF/everyfile/internal/params"
	"github.com/matt-FFFFFF/everyfile/internal/runbatch"
	"github.com/matt-FFFFFF/everyfile/internal/schema"
	"github.com/urfave/cli/v3"
)

const (
	helpParam         = "help"
	versionParam      = "version"
	configSchemaParam = "config-schema"
	schemaTitle       = "everyfile config file"
	exitFailure       = 1
)

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	p := params.Parse(cmd.Args().Slice())

	if p.Bool(helpParam) {
		return cli.ShowAppHelp(cmd) //nolint:wrapcheck
	}

	if p.Bool(versionParam) {
		cli.ShowVersion(cmd)
		return nil
	}

	if format, ok := p.Get(configSchemaParam); ok {
		return writeConfigSchema(cmd, format)
	}

	cfg, err := config.Load(ctx, p)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	if err := config.Validate(cfg); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	ctxlog.Debug(ctx, "configuration",
		"srcDir", cfg.SrcDir,
		"destDir", cfg.DestDir,
		"include", cfg.Include,
		"exclude", cfg.Exclude,
		"mode", cfg.Mode.String(),
		"silent", cfg.Silent,
		"dot", cfg.Dot,
		"bindings", cfg.Bindings.Len(),
	)

	o := orchestrator.New(cfg,
		orchestrator.WithStdout(cmd.Writer),
		orchestrator.WithStderr(cmd.ErrWriter),
	)

	results, err := o.Run(ctx)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	failed := results.Failed()
	if len(failed) == 0 {
		return nil
	}

	if !cfg.Silent {
		fmt.Fprintf(cmd.ErrWriter, "\n%d of %d commands failed:\n", len(failed), len(results)) //nolint:errcheck

		// Standard error was already forwarded while the commands ran.
		opts := &runbatch.OutputOptions{FailedOnly: true}
		if err := failed.WriteWithOptions(cmd.ErrWriter, opts); err != nil {
			ctxlog.Warn(ctx, "could not write failure summary", "error", err)
		}
	}

	return cli.Exit("", exitFailure)
}

// writeConfigSchema writes the schema of the config file as JSON, or as Markdown.
func writeConfigSchema(cmd *cli.Command, format string) error {
	var err error

	switch format {
	case "markdown", "md":
		err = schema.WriteMarkdown(cmd.Writer, config.File{}, schemaTitle)
	case "true", "json":
		err = schema.WriteJSON(cmd.Writer, config.File{}, schemaTitle)
	default:
		return cli.Exit(fmt.Sprintf("unknown schema format %q, use json or markdown", format), exitFailure)
	}

	if err != nil {
		return cli.Exit("failed to write schema: "+err.Error(), exitFailure)
	}

	return nil
}
