// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the everyfile command-line application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/everyfile"
	"github.com/matt-FFFFFF/everyfile/cmd"
	"github.com/matt-FFFFFF/everyfile/internal/ctxlog"
	"github.com/matt-FFFFFF/everyfile/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := cmd.NewRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", everyfile.Version, everyfile.Commit)

	err := rootCmd.Run(ctx, os.Args)
	if err != nil || ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err, "context", ctx.Err())
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
	os.Exit(0)
}
