// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package enrollment turns raw per-student registration rows into
// per-course, per-term statistics with historical baselines.
//
// The aggregation is a pure transformation: callers supply the raw
// tables (loaded and schema-checked elsewhere) and receive one
// GroupStats row per (campus, college, course, term). Baseline means
// are computed within terms sharing the same term type only.
package enrollment

// StatusCode is a raw registration-status code as it appears in the
// student information system export.
type StatusCode string

// Raw status vocabulary. Two registered variants and two late-drop
// variants exist in the source data; they merge during aggregation.
const (
	StatusRegistered    StatusCode = "RE" // standard registration
	StatusRegisteredWeb StatusCode = "RW" // self-service registration
	StatusEarlyDrop     StatusCode = "DD" // dropped before census
	StatusLateDrop      StatusCode = "DC" // dropped after census
	StatusLateWithdraw  StatusCode = "WD" // withdrawn after census
	StatusWaitlisted    StatusCode = "WL"
)

// Category is a merged registration-status category. Counts are taken
// over distinct students per (GroupKey, Category).
type Category string

const (
	CategoryRegistered Category = "registered"
	CategoryEarlyDrop  Category = "early_drop"
	CategoryLateDrop   Category = "late_drop"
	CategoryAllDrop    Category = "all_drop"
	CategoryWaitlist   Category = "waitlist"

	// CategoryClassList is the denominator category: every distinct
	// student on the class list, excluding waitlisted students.
	CategoryClassList Category = "class_list"
)

// categoryOf maps a raw code to its merged category. The boolean is
// false for codes outside the tracked vocabulary.
func categoryOf(code StatusCode) (Category, bool) {
	switch code {
	case StatusRegistered, StatusRegisteredWeb:
		return CategoryRegistered, true
	case StatusEarlyDrop:
		return CategoryEarlyDrop, true
	case StatusLateDrop, StatusLateWithdraw:
		return CategoryLateDrop, true
	case StatusWaitlisted:
		return CategoryWaitlist, true
	default:
		return "", false
	}
}

// Row is one raw enrollment record: one student's registration attempt
// in one course section for one term.
type Row struct {
	Campus        string     `json:"campus"`
	College       string     `json:"college"`
	SubjectCourse string     `json:"subject_course"` // e.g. "HIST 1105"
	Term          string     `json:"term"`           // e.g. "202580"
	TermType      string     `json:"term_type"`      // e.g. "fall"
	StudentID     string     `json:"student_id"`
	Status        StatusCode `json:"registration_status"`
}

// GroupKey identifies one observation unit: a course offered on a
// campus by a college in a specific term. Immutable once computed.
type GroupKey struct {
	Campus        string `json:"campus"`
	College       string `json:"college"`
	SubjectCourse string `json:"subject_course"`
	Term          string `json:"term"`
	TermType      string `json:"term_type"`
}

// baselineKey is the partition a baseline mean is computed over: all
// terms of the same term type for the same course. Never mixes term
// types.
type baselineKey struct {
	Campus        string
	College       string
	SubjectCourse string
	TermType      string
}

func (k GroupKey) baseline() baselineKey {
	return baselineKey{
		Campus:        k.Campus,
		College:       k.College,
		SubjectCourse: k.SubjectCourse,
		TermType:      k.TermType,
	}
}

// GroupStats is one row of the aggregated statistics table: the
// observed count for each tracked metric in one term, alongside the
// baseline mean of that metric across all terms of the same term type.
//
// Groups with no observation for a metric carry 0, not a missing
// marker, and the baseline divides by the number of terms present for
// the partition, not the number of non-zero terms.
type GroupStats struct {
	GroupKey

	Registered     int     `json:"registered"`
	RegisteredMean float64 `json:"registered_mean"`

	EarlyDrop     int     `json:"early_drop"`
	EarlyDropMean float64 `json:"early_drop_mean"`

	LateDrop     int     `json:"late_drop"`
	LateDropMean float64 `json:"late_drop_mean"`

	AllDrop     int     `json:"all_drop"`
	AllDropMean float64 `json:"all_drop_mean"`

	Waitlist     int     `json:"waitlist"`
	WaitlistMean float64 `json:"waitlist_mean"`

	ClassList     int     `json:"class_list"`
	ClassListMean float64 `json:"class_list_mean"`
}

// StatusCount is one row of the raw-counts escape hatch: distinct
// students per (GroupKey, StatusCode), with no baseline machinery.
type StatusCount struct {
	GroupKey
	Status   StatusCode `json:"registration_status"`
	Students int        `json:"students"`
}

// Section is one row of the current-term availability table, joined
// against the statistics table for waitlist and seat-squeeze analysis.
type Section struct {
	Campus        string `json:"campus"`
	College       string `json:"college"`
	SubjectCourse string `json:"subject_course"`
	Term          string `json:"term"`
	GenEdArea     string `json:"gen_ed_area"`
	Enrolled      int    `json:"enrolled"`
	Available     int    `json:"available"`
	Waitlisted    int    `json:"waitlisted"`
}
