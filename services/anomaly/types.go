// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package anomaly is the registration anomaly detection engine: it
// aggregates raw enrollment rows into per-course statistics with
// historical baselines, flags statistically anomalous courses across
// six categories, summarizes severity tiers, and caches results with a
// threshold-aware invalidation policy.
//
// The engine is a single-threaded batch computation per invocation.
// All configuration is passed explicitly; there is no ambient state.
package anomaly

import (
	"time"

	"github.com/cedar-ir/cedar/services/anomaly/detect"
	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
	"github.com/cedar-ir/cedar/services/anomaly/summary"
	"github.com/cedar-ir/cedar/services/anomaly/thresholds"
)

// EngineVersion tags cache provenance so persisted bundles can be
// traced to the code that produced them.
const EngineVersion = "1.2.0"

// Filter restricts an engine run. Empty slices mean "no restriction."
//
// College, campus, course, and level filters are applied before
// aggregation. The term filter is applied after scoring: baselines
// must always be computed over the full term history.
type Filter struct {
	Colleges []string `json:"colleges,omitempty" validate:"dive,required"`
	Terms    []string `json:"terms,omitempty" validate:"dive,required"`
	Courses  []string `json:"courses,omitempty" validate:"dive,required"`
	Campuses []string `json:"campuses,omitempty" validate:"dive,required"`
	Levels   []string `json:"levels,omitempty" validate:"dive,oneof=lower upper grad"`
}

// Inputs are the raw tables supplied by the caller. Loading and schema
// validation happen upstream (see the ingest package).
type Inputs struct {
	Enrollment []enrollment.Row
	Sections   []enrollment.Section
}

// Provenance records where a bundle came from.
type Provenance struct {
	// Cached is true when the bundle was served from the result cache
	// without recomputation.
	Cached bool `json:"cached"`

	// GeneratedAt is when the bundle was computed (not loaded).
	GeneratedAt time.Time `json:"generated_at"`

	// AgeSeconds is the cache entry age at load time. Zero for fresh
	// computations.
	AgeSeconds float64 `json:"age_seconds"`

	// SourceFile is the cache filename for this filter set.
	SourceFile string `json:"source_file"`

	// EngineVersion is the engine that produced the bundle.
	EngineVersion string `json:"engine_version"`

	// RunID uniquely identifies the producing invocation.
	RunID string `json:"run_id"`
}

// ResultBundle is the full engine output: one table per anomaly
// category, the deduplicated flagged-course list, the tier summary,
// the thresholds actually used, and cache provenance.
type ResultBundle struct {
	EarlyDrops []detect.AnomalyRecord  `json:"early_drops"`
	LateDrops  []detect.AnomalyRecord  `json:"late_drops"`
	Dips       []detect.AnomalyRecord  `json:"dips"`
	Bumps      []detect.AnomalyRecord  `json:"bumps"`
	Waits      []detect.WaitlistRecord `json:"waits"`
	Squeezes   []detect.SqueezeRecord  `json:"squeezes"`

	AllFlaggedCourses []string                   `json:"all_flagged_courses"`
	TierSummary       []summary.Row              `json:"tier_summary"`
	Notes             map[detect.Category]string `json:"notes,omitempty"`

	Thresholds thresholds.Config `json:"thresholds"`
	Filter     Filter            `json:"filter"`
	Provenance Provenance        `json:"provenance"`
}
