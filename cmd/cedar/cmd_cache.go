// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// runCacheList prints every cached result file, newest first.
func runCacheList(cmd *cobra.Command, args []string) {
	matches, err := filepath.Glob(filepath.Join(config.Cache.Dir, "anomaly-cache_*.json"))
	if err != nil {
		logger.Error("failed to list cache directory", "error", err.Error())
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("cache is empty")
		return
	}

	type entry struct {
		path  string
		mtime time.Time
	}
	entries := make([]entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: path, mtime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].mtime.After(entries[j].mtime)
	})

	for _, e := range entries {
		fmt.Printf("%-60s  %s (%s old)\n",
			filepath.Base(e.path),
			e.mtime.Format(time.RFC3339),
			time.Since(e.mtime).Round(time.Minute))
	}
}

// runCacheClear removes every cached result file.
func runCacheClear(cmd *cobra.Command, args []string) {
	matches, err := filepath.Glob(filepath.Join(config.Cache.Dir, "anomaly-cache_*.json"))
	if err != nil {
		logger.Error("failed to list cache directory", "error", err.Error())
		os.Exit(1)
	}

	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove cache file", "path", path, "error", err.Error())
			continue
		}
		removed++
	}
	fmt.Printf("removed %d cache file(s)\n", removed)
}
