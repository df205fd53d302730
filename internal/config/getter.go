// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
)

// Getter fetches the config file at url. Tests replace it to avoid touching the network.
var Getter = getURL

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It removes the temporary directory after reading the content.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("empty config file URL")
	}

	tmpDir, err := os.MkdirTemp("", "everyfile-getter-*")
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file is read from there.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, err
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, fmt.Errorf("invalid URL format: %s", url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Join(res.Dst, fileName))
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits a go-getter URL into the directory URL and the file name.
// A ref query parameter is kept on the directory URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	lastPart := parts[len(parts)-1]

	if before, after, ok := strings.Cut(lastPart, goGetterRefSeparator); ok {
		ref = after
		lastPart = before
	}

	if filepath.Clean(lastPart) == filepath.Dir(lastPart) {
		return "", ""
	}

	fileName := filepath.Base(lastPart)
	parts[len(parts)-1] = filepath.Dir(lastPart)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
