// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package resultcache persists anomaly result bundles on local storage
// with a TTL freshness check and a retention cap.
//
// Cache keys are derived deterministically from the active filter
// parameters, so the same logical filter set always maps to the same
// file regardless of input ordering. The cache is only consulted for
// runs using the default thresholds; threshold-overridden runs bypass
// it entirely.
package resultcache

import (
	"sort"
	"strings"
)

// Filename segments. Absent filters contribute a sentinel so a request
// with no college filter never aliases one with an explicit full list.
const (
	filePrefix = "anomaly-cache"
	fileExt    = ".json"

	allColleges = "all-colleges"
	allTerms    = "all-terms"
)

// Key derives the cache filename for a filter set. Multi-valued
// parameters are sorted and joined before insertion; every segment is
// sanitized to filesystem-safe characters. Every filter dimension that
// changes the computed bundle participates in the key, so two distinct
// logical filter sets never share a file.
func Key(colleges, terms, levels, campuses, courses []string) string {
	var b strings.Builder
	b.WriteString(filePrefix)
	b.WriteByte('_')
	b.WriteString(segment(colleges, allColleges))
	b.WriteByte('_')
	b.WriteString(segment(terms, allTerms))
	if len(levels) > 0 {
		b.WriteString("_lv-")
		b.WriteString(segment(levels, ""))
	}
	if len(campuses) > 0 {
		b.WriteString("_cp-")
		b.WriteString(segment(campuses, ""))
	}
	if len(courses) > 0 {
		b.WriteString("_cr-")
		b.WriteString(segment(courses, ""))
	}
	b.WriteString(fileExt)
	return b.String()
}

func segment(values []string, sentinel string) string {
	if len(values) == 0 {
		return sentinel
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	for i, v := range sorted {
		sorted[i] = sanitize(v)
	}
	return strings.Join(sorted, "-")
}

// sanitize keeps letters, digits, and hyphens; everything else maps to
// a hyphen so keys never produce path separators or hidden files.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
