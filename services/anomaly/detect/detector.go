// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detect

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
	"github.com/cedar-ir/cedar/services/anomaly/thresholds"
)

// Detector runs every anomaly category over one statistics table.
//
// The category pipelines are pure transformations over immutable
// inputs, so they run concurrently across categories.
type Detector struct {
	cfg    thresholds.Config
	logger *slog.Logger
}

// New creates a detector with resolved thresholds.
func New(cfg thresholds.Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, logger: logger}
}

// metricField selects one metric column from a statistics row.
type metricField func(enrollment.GroupStats) (observed, mean float64)

// Run executes every category and collects the flagged results.
//
// termFilter, when non-empty, restricts every category's output to the
// listed terms. Baselines were already computed over the full term
// history, so the restriction is applied after scoring.
func (d *Detector) Run(ctx context.Context, stats []enrollment.GroupStats, sections []enrollment.Section, termFilter []string) (*Results, error) {
	res := &Results{Notes: make(map[Category]string)}
	var mu sync.Mutex

	keepTerm := termSet(termFilter)

	g, ctx := errgroup.WithContext(ctx)

	runDeviation := func(cat Category, field metricField, dir Direction, dst *[]AnomalyRecord) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records := d.deviationCategory(stats, field, dir, keepTerm)
			mu.Lock()
			*dst = records
			mu.Unlock()
			return nil
		})
	}

	runDeviation(CategoryEarlyDrops, func(s enrollment.GroupStats) (float64, float64) {
		return float64(s.EarlyDrop), s.EarlyDropMean
	}, DirectionHigh, &res.EarlyDrops)

	runDeviation(CategoryLateDrops, func(s enrollment.GroupStats) (float64, float64) {
		return float64(s.LateDrop), s.LateDropMean
	}, DirectionHigh, &res.LateDrops)

	runDeviation(CategoryDips, func(s enrollment.GroupStats) (float64, float64) {
		return float64(s.Registered), s.RegisteredMean
	}, DirectionLow, &res.Dips)

	runDeviation(CategoryBumps, func(s enrollment.GroupStats) (float64, float64) {
		return float64(s.Registered), s.RegisteredMean
	}, DirectionHigh, &res.Bumps)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		waits, note := d.waits(stats, sections, keepTerm)
		mu.Lock()
		res.Waits = waits
		if note != "" {
			res.Notes[CategoryWaits] = note
		}
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		squeezes, note := d.squeezes(stats, sections, keepTerm)
		mu.Lock()
		res.Squeezes = squeezes
		if note != "" {
			res.Notes[CategorySqueezes] = note
		}
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(res.Notes) == 0 {
		res.Notes = nil
	}
	res.AllFlaggedCourses = d.flaggedCourses(res)
	return res, nil
}

// deviationCategory is the shared procedure for the four
// deviation-based categories: population SD per partition, clamped
// deviation, direction-aware tier, and the three-condition filter.
func (d *Detector) deviationCategory(stats []enrollment.GroupStats, field metricField, dir Direction, keepTerm map[string]bool) []AnomalyRecord {
	type partKey struct {
		Campus, College, SubjectCourse, TermType string
	}
	parts := make(map[partKey][]int)
	for i := range stats {
		k := partKey{stats[i].Campus, stats[i].College, stats[i].SubjectCourse, stats[i].TermType}
		parts[k] = append(parts[k], i)
	}

	var out []AnomalyRecord
	for _, idx := range parts {
		diffs := make([]float64, 0, len(idx))
		for _, i := range idx {
			observed, mean := field(stats[i])
			diffs = append(diffs, observed-mean)
		}
		sd := popStdDev(diffs)

		for _, i := range idx {
			observed, mean := field(stats[i])
			deviation := clampedDeviation(observed, mean, sd)
			impacted := impactedMagnitude(observed, mean, dir)
			tier := assignTier(deviation, dir)

			// All three conditions are required: the SD threshold
			// screens routine variance in large courses, the impact
			// threshold screens relative noise in small ones.
			if abs(deviation) < d.cfg.PctSD || impacted <= d.cfg.MinImpacted || tier == TierNormal {
				continue
			}
			if keepTerm != nil && !keepTerm[stats[i].Term] {
				continue
			}
			out = append(out, AnomalyRecord{
				GroupKey:  stats[i].GroupKey,
				Observed:  observed,
				Mean:      mean,
				PopSD:     sd,
				Deviation: deviation,
				Impacted:  impacted,
				Tier:      tier,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Impacted != out[j].Impacted {
			return out[i].Impacted > out[j].Impacted
		}
		return less(out[i].GroupKey, out[j].GroupKey)
	})
	return out
}

// flaggedCourses is the deduplicated, sorted union of flagged course
// identifiers across every category.
func (d *Detector) flaggedCourses(res *Results) []string {
	set := make(map[string]bool)
	for _, r := range res.EarlyDrops {
		set[r.SubjectCourse] = true
	}
	for _, r := range res.LateDrops {
		set[r.SubjectCourse] = true
	}
	for _, r := range res.Dips {
		set[r.SubjectCourse] = true
	}
	for _, r := range res.Bumps {
		set[r.SubjectCourse] = true
	}
	for _, r := range res.Waits {
		set[r.SubjectCourse] = true
	}
	for _, r := range res.Squeezes {
		set[r.SubjectCourse] = true
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for course := range set {
		out = append(out, course)
	}
	sort.Strings(out)
	return out
}

func termSet(terms []string) map[string]bool {
	if len(terms) == 0 {
		return nil
	}
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func less(a, b enrollment.GroupKey) bool {
	if a.Campus != b.Campus {
		return a.Campus < b.Campus
	}
	if a.College != b.College {
		return a.College < b.College
	}
	if a.SubjectCourse != b.SubjectCourse {
		return a.SubjectCourse < b.SubjectCourse
	}
	return a.Term < b.Term
}
