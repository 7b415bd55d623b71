// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/cedar-ir/cedar/pkg/validation"
	"github.com/cedar-ir/cedar/services/anomaly"
	"github.com/cedar-ir/cedar/services/anomaly/ingest"
	"github.com/cedar-ir/cedar/services/anomaly/thresholds"
)

// runAnomalyReport loads the configured tables, runs the engine, and
// prints the result bundle.
func runAnomalyReport(cmd *cobra.Command, args []string) {
	filter, err := filterFromFlags()
	if err != nil {
		logger.Error("invalid filter flags", "error", err.Error())
		os.Exit(1)
	}

	rows, err := ingest.LoadEnrollmentFile(config.Data.EnrollmentCSV)
	if err != nil {
		logger.Error("failed to load enrollment table", "error", err.Error())
		os.Exit(1)
	}

	// The availability table is optional; categories that need it
	// short-circuit with an insufficient-data note.
	sections, err := ingest.LoadSectionsFile(config.Data.SectionsCSV)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error("failed to load sections table", "error", err.Error())
			os.Exit(1)
		}
		logger.Warn("sections table not found, waitlist/squeeze analysis degraded",
			"path", config.Data.SectionsCSV)
	}

	engine := anomaly.New(anomaly.Config{
		CacheDir:    config.Cache.Dir,
		CacheTTL:    config.cacheTTL(),
		CacheRetain: config.Cache.Retain,
	}, logger.Slog())

	bundle, err := engine.Run(cmd.Context(), anomaly.Inputs{
		Enrollment: rows,
		Sections:   sections,
	}, filter, overridesFromFlags())
	if err != nil {
		logger.Error("anomaly engine failed", "error", err.Error())
		os.Exit(1)
	}

	if flagOutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bundle); err != nil {
			logger.Error("failed to encode bundle", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	printSummary(bundle)
}

// filterFromFlags validates and normalizes the filter flags. Filter
// values end up in cache filenames, so they are checked at the
// boundary rather than trusted downstream.
func filterFromFlags() (anomaly.Filter, error) {
	if err := validation.ValidateTermCodes(flagTerms); err != nil {
		return anomaly.Filter{}, err
	}

	colleges := make([]string, 0, len(flagColleges))
	for _, c := range flagColleges {
		code, err := validation.SanitizeOrgCode(c)
		if err != nil {
			return anomaly.Filter{}, fmt.Errorf("college: %w", err)
		}
		colleges = append(colleges, code)
	}

	campuses := make([]string, 0, len(flagCampuses))
	for _, c := range flagCampuses {
		code, err := validation.SanitizeOrgCode(c)
		if err != nil {
			return anomaly.Filter{}, fmt.Errorf("campus: %w", err)
		}
		campuses = append(campuses, code)
	}

	f := anomaly.Filter{
		Terms:   flagTerms,
		Courses: flagCourses,
		Levels:  flagLevels,
	}
	if len(colleges) > 0 {
		f.Colleges = colleges
	}
	if len(campuses) > 0 {
		f.Campuses = campuses
	}
	return f, nil
}

// overridesFromFlags converts the negative-sentinel flags into an
// Overrides value, or nil when nothing was supplied.
func overridesFromFlags() *thresholds.Overrides {
	var o thresholds.Overrides
	set := false

	assign := func(dst **float64, v float64) {
		if v >= 0 {
			val := v
			*dst = &val
			set = true
		}
	}
	assign(&o.MinImpacted, flagMinImpacted)
	assign(&o.PctSD, flagPctSD)
	assign(&o.MinSqueeze, flagMinSqueeze)
	assign(&o.MinWait, flagMinWait)
	assign(&o.SectionProximity, flagSectionProximity)

	if !set {
		return nil
	}
	return &o
}

func printSummary(bundle *anomaly.ResultBundle) {
	source := "computed"
	if bundle.Provenance.Cached {
		source = fmt.Sprintf("cache (%.0fs old)", bundle.Provenance.AgeSeconds)
	}
	fmt.Printf("Anomaly report [%s]\n", source)
	fmt.Printf("  early drops: %d\n", len(bundle.EarlyDrops))
	fmt.Printf("  late drops:  %d\n", len(bundle.LateDrops))
	fmt.Printf("  dips:        %d\n", len(bundle.Dips))
	fmt.Printf("  bumps:       %d\n", len(bundle.Bumps))
	fmt.Printf("  waits:       %d\n", len(bundle.Waits))
	fmt.Printf("  squeezes:    %d\n", len(bundle.Squeezes))
	fmt.Printf("  flagged courses: %d\n", len(bundle.AllFlaggedCourses))

	if len(bundle.TierSummary) > 0 {
		fmt.Println("\nTier summary (most urgent first):")
		for _, row := range bundle.TierSummary {
			fmt.Printf("  %-12s critical=%d moderate=%d marginal=%d\n",
				row.Category, row.CriticalTotal, row.ModerateTotal, row.MarginalTotal)
		}
	}
	for cat, note := range bundle.Notes {
		fmt.Printf("  note: %s: %s\n", cat, note)
	}
}
