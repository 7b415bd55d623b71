// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resultcache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// evict caps the cache directory at the retention count, deleting the
// oldest files by modification time. Best-effort: failures are logged
// and swallowed, since losing cache files must never block returning a
// freshly computed result.
func (c *Cache) evict(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	matches, err := filepath.Glob(filepath.Join(c.dir, filePrefix+"_*"+fileExt))
	if err != nil {
		c.logger.Warn("cache retention listing failed",
			slog.String("dir", c.dir),
			slog.String("error", err.Error()))
		cacheEvictionFailures.Inc()
		return
	}
	if len(matches) <= c.retain {
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
			// Possibly deleted by a concurrent run; skip it.
			continue
		}
		entries = append(entries, entry{path: path, mtime: info.ModTime()})
	}

	// Newest first; everything past the cap goes.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].mtime.After(entries[j].mtime)
	})

	for _, e := range entries[min(c.retain, len(entries)):] {
		if err := os.Remove(e.path); err != nil {
			c.logger.Warn("cache eviction failed",
				slog.String("path", e.path),
				slog.String("error", err.Error()))
			cacheEvictionFailures.Inc()
			continue
		}
		cacheEvictionsTotal.Inc()
		c.logger.Debug("evicted cache entry",
			slog.String("path", e.path),
			slog.Time("mtime", e.mtime))
	}
}
