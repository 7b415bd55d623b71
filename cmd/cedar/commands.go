// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string

	// Filter flags shared by report commands.
	flagColleges []string
	flagTerms    []string
	flagCourses  []string
	flagCampuses []string
	flagLevels   []string

	// Threshold override flags. Negative sentinel means "not set" so
	// an explicit 0 is distinguishable from absence.
	flagMinImpacted      float64
	flagPctSD            float64
	flagMinSqueeze       float64
	flagMinWait          float64
	flagSectionProximity float64

	flagOutputJSON bool

	rootCmd = &cobra.Command{
		Use:   "cedar",
		Short: "Institutional-research reporting for enrollment data",
		Long: `Cedar computes registration statistics over institutional
enrollment exports and flags statistically anomalous courses:
unusual drops, enrollment dips and bumps, waitlist pressure, and
seat squeezes.`,
	}

	anomalyCmd = &cobra.Command{
		Use:   "anomaly",
		Short: "Registration anomaly detection",
	}

	anomalyReportCmd = &cobra.Command{
		Use:   "report",
		Short: "Run the anomaly engine over the configured data files",
		Run:   runAnomalyReport, // Defined in cmd_anomaly.go
	}

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the anomaly result cache",
	}

	cacheListCmd = &cobra.Command{
		Use:   "list",
		Short: "List cached result files with their age",
		Run:   runCacheList, // Defined in cmd_cache.go
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached result file",
		Run:   runCacheClear, // Defined in cmd_cache.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cedar.yaml", "Path to the deployment config")

	anomalyReportCmd.Flags().StringSliceVar(&flagColleges, "college", nil, "Restrict to these colleges")
	anomalyReportCmd.Flags().StringSliceVar(&flagTerms, "term", nil, "Restrict output to these terms")
	anomalyReportCmd.Flags().StringSliceVar(&flagCourses, "course", nil, "Restrict to these subject courses")
	anomalyReportCmd.Flags().StringSliceVar(&flagCampuses, "campus", nil, "Restrict to these campuses")
	anomalyReportCmd.Flags().StringSliceVar(&flagLevels, "level", nil, "Restrict to course levels (lower/upper/grad)")

	anomalyReportCmd.Flags().Float64Var(&flagMinImpacted, "min-impacted", -1, "Minimum absolute student-count impact")
	anomalyReportCmd.Flags().Float64Var(&flagPctSD, "pct-sd", -1, "Minimum |deviation| in SD units")
	anomalyReportCmd.Flags().Float64Var(&flagMinSqueeze, "min-squeeze", -1, "Maximum available/historical-drop ratio")
	anomalyReportCmd.Flags().Float64Var(&flagMinWait, "min-wait", -1, "Minimum waitlist count to flag")
	anomalyReportCmd.Flags().Float64Var(&flagSectionProximity, "section-proximity", -1, "Reserved tie-break parameter")

	anomalyReportCmd.Flags().BoolVar(&flagOutputJSON, "json", false, "Emit the full result bundle as JSON")

	anomalyCmd.AddCommand(anomalyReportCmd)
	cacheCmd.AddCommand(cacheListCmd, cacheClearCmd)
	rootCmd.AddCommand(anomalyCmd, cacheCmd)
}
