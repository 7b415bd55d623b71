// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("cedar.anomaly.resultcache")

// Default cache policy.
const (
	// DefaultTTL is how long a cache entry stays fresh, judged by its
	// file modification time.
	DefaultTTL = 24 * time.Hour

	// DefaultRetain is the maximum number of cache files kept on disk.
	DefaultRetain = 20
)

// Cache is a filesystem-backed result cache. One file per filter key;
// the file's modification time is its TTL clock.
//
// Concurrent invocations with the same key may race to write the same
// file; entries are derivable from deterministic inputs, so
// last-writer-wins is acceptable and no cross-process lock is taken.
type Cache struct {
	dir    string
	ttl    time.Duration
	retain int
	logger *slog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithRetain overrides the retention cap.
func WithRetain(n int) Option {
	return func(c *Cache) { c.retain = n }
}

// New creates a cache rooted at dir. The directory is created lazily
// on first write.
func New(dir string, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		dir:    dir,
		ttl:    DefaultTTL,
		retain: DefaultRetain,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// LoadInfo describes the outcome of a cache read.
type LoadInfo struct {
	// Hit is true when a fresh entry was decoded into v.
	Hit bool

	// Age is how long ago the entry was written. Zero on miss.
	Age time.Duration

	// Path is the file consulted, relative to the cache directory.
	Path string
}

// Load reads the entry for key into v if it exists and is younger than
// the TTL. Every failure mode degrades to a miss: a missing file, a
// stale file, and a corrupt file all return Hit=false with a nil
// error, because cache health must never block producing a result.
func (c *Cache) Load(ctx context.Context, key string, v any) LoadInfo {
	_, span := tracer.Start(ctx, "resultcache.Load",
		trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	path := filepath.Join(c.dir, key)
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("cache stat failed, treating as miss",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		cacheMissesTotal.WithLabelValues(missAbsent).Inc()
		span.SetAttributes(attribute.Bool("hit", false))
		return LoadInfo{Path: key}
	}

	age := c.now().Sub(info.ModTime())
	if age > c.ttl {
		c.logger.Info("cache entry expired",
			slog.String("key", key),
			slog.Duration("age", age))
		cacheMissesTotal.WithLabelValues(missExpired).Inc()
		span.SetAttributes(attribute.Bool("hit", false))
		return LoadInfo{Path: key}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss",
			slog.String("path", path),
			slog.String("error", err.Error()))
		cacheMissesTotal.WithLabelValues(missDecode).Inc()
		span.SetAttributes(attribute.Bool("hit", false))
		return LoadInfo{Path: key}
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("cache entry corrupt, treating as miss",
			slog.String("path", path),
			slog.String("error", err.Error()))
		cacheMissesTotal.WithLabelValues(missDecode).Inc()
		span.SetAttributes(attribute.Bool("hit", false))
		return LoadInfo{Path: key}
	}

	cacheHitsTotal.Inc()
	span.SetAttributes(attribute.Bool("hit", true))
	return LoadInfo{Hit: true, Age: age, Path: key}
}

// Store persists v under key and applies the retention policy. The
// write error is returned so the caller can log it, but callers treat
// it as non-fatal: a fresh result is still returned to the requester.
func (c *Cache) Store(ctx context.Context, key string, v any) error {
	ctx, span := tracer.Start(ctx, "resultcache.Store",
		trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", c.dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	path := filepath.Join(c.dir, key)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	cacheWritesTotal.Inc()

	c.evict(ctx)
	return nil
}
