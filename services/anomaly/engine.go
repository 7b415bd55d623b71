// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cedar-ir/cedar/services/anomaly/detect"
	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
	"github.com/cedar-ir/cedar/services/anomaly/resultcache"
	"github.com/cedar-ir/cedar/services/anomaly/summary"
	"github.com/cedar-ir/cedar/services/anomaly/thresholds"
)

var tracer = otel.Tracer("cedar.anomaly.engine")

// Config is the engine's explicit configuration. No field is read
// from process-wide state, so the engine is testable with arbitrary
// configurations in isolation.
type Config struct {
	// CacheDir is the result cache directory. Empty disables caching.
	CacheDir string

	// CacheTTL is the freshness window for cache entries.
	// Zero means resultcache.DefaultTTL.
	CacheTTL time.Duration

	// CacheRetain caps the number of cache files kept on disk.
	// Zero means resultcache.DefaultRetain.
	CacheRetain int
}

// Engine runs the full anomaly pipeline: threshold resolution, cache
// lookup, aggregation, detection, summarization, and cache writeback.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	cache    *resultcache.Cache
	validate *validator.Validate
}

// New creates an engine. A nil logger falls back to slog.Default.
func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
	if cfg.CacheDir != "" {
		var opts []resultcache.Option
		if cfg.CacheTTL > 0 {
			opts = append(opts, resultcache.WithTTL(cfg.CacheTTL))
		}
		if cfg.CacheRetain > 0 {
			opts = append(opts, resultcache.WithRetain(cfg.CacheRetain))
		}
		e.cache = resultcache.New(cfg.CacheDir, logger, opts...)
	}
	return e
}

// Run executes one engine invocation.
//
// Runs with default-equivalent thresholds are cache-eligible: a fresh
// cache entry for the same filter set is returned without recomputing
// anything upstream, and a fresh computation is written back through
// the cache. Threshold-overridden runs bypass the cache in both
// directions. Cache I/O failures degrade to compute-without-caching.
func (e *Engine) Run(ctx context.Context, in Inputs, filter Filter, overrides *thresholds.Overrides) (*ResultBundle, error) {
	ctx, span := tracer.Start(ctx, "anomaly.Run",
		trace.WithAttributes(
			attribute.Int("enrollment_rows", len(in.Enrollment)),
			attribute.Int("section_rows", len(in.Sections)),
		))
	defer span.End()

	if err := e.validate.Struct(&filter); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	if err := overrides.Validate(); err != nil {
		return nil, err
	}

	cfg, cacheEligible := thresholds.Resolve(overrides)
	key := resultcache.Key(filter.Colleges, filter.Terms, filter.Levels, filter.Campuses, filter.Courses)
	span.SetAttributes(
		attribute.Bool("cache_eligible", cacheEligible),
		attribute.String("cache_key", key),
	)

	if cacheEligible && e.cache != nil {
		var cached ResultBundle
		if info := e.cache.Load(ctx, key, &cached); info.Hit {
			cached.Provenance.Cached = true
			cached.Provenance.AgeSeconds = info.Age.Seconds()
			cached.Provenance.SourceFile = info.Path
			e.logger.Info("anomaly report served from cache",
				slog.String("key", key),
				slog.Duration("age", info.Age))
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &cached, nil
		}
	}

	bundle, err := e.compute(ctx, in, filter, cfg, key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if cacheEligible && e.cache != nil {
		if err := e.cache.Store(ctx, key, bundle); err != nil {
			// Cache health never blocks returning the fresh result.
			e.logger.Warn("cache write failed, continuing without caching",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
	return bundle, nil
}

func (e *Engine) compute(ctx context.Context, in Inputs, filter Filter, cfg thresholds.Config, key string) (*ResultBundle, error) {
	started := time.Now()

	rows := filterRows(in.Enrollment, filter)
	sections := filterSections(in.Sections, filter)
	stats := enrollment.Aggregate(rows)

	detector := detect.New(cfg, e.logger)
	results, err := detector.Run(ctx, stats, sections, filter.Terms)
	if err != nil {
		return nil, fmt.Errorf("running anomaly detection: %w", err)
	}

	bundle := &ResultBundle{
		EarlyDrops:        results.EarlyDrops,
		LateDrops:         results.LateDrops,
		Dips:              results.Dips,
		Bumps:             results.Bumps,
		Waits:             results.Waits,
		Squeezes:          results.Squeezes,
		AllFlaggedCourses: results.AllFlaggedCourses,
		TierSummary:       summary.Summarize(results),
		Notes:             results.Notes,
		Thresholds:        cfg,
		Filter:            filter,
		Provenance: Provenance{
			GeneratedAt:   started,
			SourceFile:    key,
			EngineVersion: EngineVersion,
			RunID:         uuid.NewString(),
		},
	}

	e.logger.Info("anomaly report computed",
		slog.Int("groups", len(stats)),
		slog.Int("flagged_courses", len(bundle.AllFlaggedCourses)),
		slog.Duration("elapsed", time.Since(started)))
	return bundle, nil
}
