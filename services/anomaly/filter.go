// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package anomaly

import (
	"strings"
	"unicode"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

// CourseLevel buckets a course number into the level filter
// vocabulary.
//
// Course numbering follows the institution's catalog: below 3000 is
// lower division, 3000-4999 upper division, 5000 and above graduate.
// Courses without a parseable number report "unknown" and only match
// an empty level filter.
func CourseLevel(subjectCourse string) string {
	num := 0
	found := false
	for _, f := range strings.Fields(subjectCourse) {
		digits := 0
		n := 0
		for _, r := range f {
			if !unicode.IsDigit(r) {
				break
			}
			n = n*10 + int(r-'0')
			digits++
		}
		if digits >= 3 {
			num = n
			found = true
			break
		}
	}
	if !found {
		return "unknown"
	}
	switch {
	case num < 3000:
		return "lower"
	case num < 5000:
		return "upper"
	default:
		return "grad"
	}
}

// filterRows applies the college, campus, course, and level filters.
// Terms are deliberately not filtered here: the aggregator needs the
// full term history to compute baselines.
func filterRows(rows []enrollment.Row, f Filter) []enrollment.Row {
	if len(f.Colleges) == 0 && len(f.Campuses) == 0 && len(f.Courses) == 0 && len(f.Levels) == 0 {
		return rows
	}
	colleges := toSet(f.Colleges)
	campuses := toSet(f.Campuses)
	courses := toSet(f.Courses)
	levels := toSet(f.Levels)

	out := make([]enrollment.Row, 0, len(rows))
	for _, r := range rows {
		if !matches(r.College, r.Campus, r.SubjectCourse, colleges, campuses, courses, levels) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func filterSections(sections []enrollment.Section, f Filter) []enrollment.Section {
	if len(f.Colleges) == 0 && len(f.Campuses) == 0 && len(f.Courses) == 0 && len(f.Levels) == 0 {
		return sections
	}
	colleges := toSet(f.Colleges)
	campuses := toSet(f.Campuses)
	courses := toSet(f.Courses)
	levels := toSet(f.Levels)

	out := make([]enrollment.Section, 0, len(sections))
	for _, s := range sections {
		if !matches(s.College, s.Campus, s.SubjectCourse, colleges, campuses, courses, levels) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matches(college, campus, course string, colleges, campuses, courses, levels map[string]bool) bool {
	if colleges != nil && !colleges[college] {
		return false
	}
	if campuses != nil && !campuses[campus] {
		return false
	}
	if courses != nil && !courses[course] {
		return false
	}
	if levels != nil && !levels[CourseLevel(course)] {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
