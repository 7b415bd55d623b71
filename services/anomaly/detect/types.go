// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package detect flags statistically anomalous course registrations.
//
// Each anomaly category scores groups against their historical
// baseline using a population standard deviation per (campus, college,
// course, term type) partition, assigns a direction-aware severity
// tier, and filters on both relative deviation and absolute impact.
package detect

import (
	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

// Category names one anomaly pipeline.
type Category string

const (
	CategoryEarlyDrops Category = "early_drops"
	CategoryLateDrops  Category = "late_drops"
	CategoryDips       Category = "dips"
	CategoryBumps      Category = "bumps"
	CategoryWaits      Category = "waits"
	CategorySqueezes   Category = "squeezes"
)

// Direction is the side of the baseline a category cares about.
type Direction int

const (
	// DirectionHigh flags values above the baseline (drops, bumps).
	DirectionHigh Direction = iota

	// DirectionLow flags values below the baseline (dips).
	DirectionLow
)

// Tier is a severity label derived from the signed deviation.
type Tier string

const (
	TierCriticalHigh   Tier = "critical_high"
	TierModerateHigh   Tier = "moderate_high"
	TierMarginallyHigh Tier = "marginally_high"
	TierCriticalLow    Tier = "critical_low"
	TierModerateLow    Tier = "moderate_low"
	TierMarginallyLow  Tier = "marginally_low"
	TierNormal         Tier = "normal"
)

// AnomalyRecord is one flagged group in a deviation-based category.
type AnomalyRecord struct {
	enrollment.GroupKey

	Observed  float64 `json:"observed"`
	Mean      float64 `json:"mean"`
	PopSD     float64 `json:"pop_sd"`
	Deviation float64 `json:"deviation"` // (observed - mean) / pop_sd
	Impacted  float64 `json:"impacted"`  // non-negative magnitude
	Tier      Tier    `json:"tier"`
}

// WaitlistRecord is one flagged course in the waits category.
type WaitlistRecord struct {
	Campus        string `json:"campus"`
	College       string `json:"college"`
	Term          string `json:"term"`
	SubjectCourse string `json:"subject_course"`
	GenEdArea     string `json:"gen_ed_area"`
	Waitlisted    int    `json:"waitlisted"`
}

// SqueezeRecord is one flagged section in the squeezes category: low
// seat availability relative to historical drop volume.
type SqueezeRecord struct {
	Campus        string  `json:"campus"`
	College       string  `json:"college"`
	Term          string  `json:"term"`
	SubjectCourse string  `json:"subject_course"`
	Enrolled      int     `json:"enrolled"`
	Available     int     `json:"available"`
	AllDropMean   float64 `json:"all_drop_mean"`
	Ratio         float64 `json:"squeeze_ratio"` // available / all_drop_mean
}

// InsufficientData is the note recorded when a category's inputs are
// empty and detection over them is undefined, not an error.
const InsufficientData = "insufficient data"

// Results bundles every category's flagged output.
type Results struct {
	EarlyDrops []AnomalyRecord  `json:"early_drops"`
	LateDrops  []AnomalyRecord  `json:"late_drops"`
	Dips       []AnomalyRecord  `json:"dips"`
	Bumps      []AnomalyRecord  `json:"bumps"`
	Waits      []WaitlistRecord `json:"waits"`
	Squeezes   []SqueezeRecord  `json:"squeezes"`

	// AllFlaggedCourses is the deduplicated, sorted union of course
	// identifiers flagged by any category.
	AllFlaggedCourses []string `json:"all_flagged_courses"`

	// Notes records per-category short-circuits such as missing
	// availability data.
	Notes map[Category]string `json:"notes,omitempty"`
}
