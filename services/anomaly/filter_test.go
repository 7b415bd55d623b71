// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package anomaly

import (
	"testing"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

func TestCourseLevel(t *testing.T) {
	cases := []struct {
		course string
		want   string
	}{
		{"HIST 1105", "lower"},
		{"MATH 2999", "lower"},
		{"BIOL 3000", "upper"},
		{"CHEM 4999", "upper"},
		{"PHYS 5000", "grad"},
		{"ENGL 6320", "grad"},
		{"ARTS 499L", "lower"}, // trailing letter suffix
		{"SEMINAR", "unknown"},
		{"", "unknown"},
		{"BIO 42", "unknown"}, // too few digits to be a course number
	}
	for _, tc := range cases {
		t.Run(tc.course, func(t *testing.T) {
			if got := CourseLevel(tc.course); got != tc.want {
				t.Errorf("CourseLevel(%q) = %q, want %q", tc.course, got, tc.want)
			}
		})
	}
}

func TestFilterRows(t *testing.T) {
	rows := []enrollment.Row{
		{Campus: "ABQ", College: "AS", SubjectCourse: "HIST 1105"},
		{Campus: "ABQ", College: "EN", SubjectCourse: "ECE 3310"},
		{Campus: "GAL", College: "AS", SubjectCourse: "MATH 5150"},
	}

	t.Run("no filter passes everything", func(t *testing.T) {
		got := filterRows(rows, Filter{})
		if len(got) != len(rows) {
			t.Fatalf("got %d rows, want %d", len(got), len(rows))
		}
	})

	t.Run("college", func(t *testing.T) {
		got := filterRows(rows, Filter{Colleges: []string{"AS"}})
		if len(got) != 2 {
			t.Fatalf("got %d rows, want 2", len(got))
		}
	})

	t.Run("campus and level combine", func(t *testing.T) {
		got := filterRows(rows, Filter{Campuses: []string{"ABQ"}, Levels: []string{"upper"}})
		if len(got) != 1 || got[0].SubjectCourse != "ECE 3310" {
			t.Fatalf("got %v, want only ECE 3310", got)
		}
	})

	t.Run("terms never filter rows", func(t *testing.T) {
		got := filterRows(rows, Filter{Terms: []string{"209980"}})
		if len(got) != len(rows) {
			t.Fatalf("term filter must not remove rows before aggregation, got %d", len(got))
		}
	})
}

func TestFilterSections(t *testing.T) {
	sections := []enrollment.Section{
		{Campus: "ABQ", College: "AS", SubjectCourse: "HIST 1105"},
		{Campus: "ABQ", College: "EN", SubjectCourse: "ECE 3310"},
	}
	got := filterSections(sections, Filter{Levels: []string{"lower"}})
	if len(got) != 1 || got[0].SubjectCourse != "HIST 1105" {
		t.Fatalf("got %v, want only HIST 1105", got)
	}
}
