// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enrollment

import (
	"sort"
)

// metricCounts accumulates distinct-student counts for one GroupKey.
type metricCounts struct {
	registered int
	earlyDrop  int
	lateDrop   int
	allDrop    int
	waitlist   int
	classList  int
}

// studentKey deduplicates students within a group and category. A
// student retaking or cross-listed into multiple sections of the same
// course-term counts once.
type studentKey struct {
	group    GroupKey
	category Category
	student  string
}

// Aggregate builds the statistics table from raw enrollment rows.
//
// Processing:
//
//  1. Deduplicate to distinct students per (GroupKey, category).
//  2. Count per merged status category; all_drop is the union of
//     early and late drops, class_list excludes waitlisted students.
//  3. Compute baseline means per (campus, college, course, term type)
//     across all terms present for that partition.
//
// Rows whose status code is outside the tracked vocabulary are
// ignored. The result is sorted by group key for deterministic output.
func Aggregate(rows []Row) []GroupStats {
	counts := countByGroup(rows)
	if len(counts) == 0 {
		return nil
	}

	stats := make([]GroupStats, 0, len(counts))
	for key, c := range counts {
		stats = append(stats, GroupStats{
			GroupKey:   key,
			Registered: c.registered,
			EarlyDrop:  c.earlyDrop,
			LateDrop:   c.lateDrop,
			AllDrop:    c.allDrop,
			Waitlist:   c.waitlist,
			ClassList:  c.classList,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return less(stats[i].GroupKey, stats[j].GroupKey)
	})

	fillBaselines(stats)
	return stats
}

// CountByStatus is the raw-counts escape hatch: distinct-student
// counts per (GroupKey, raw status code), restricted to the requested
// subset, with no deduplication across codes and no baselines.
//
// An empty subset means all tracked codes.
func CountByStatus(rows []Row, statuses []StatusCode) []StatusCount {
	wanted := make(map[StatusCode]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	type rawKey struct {
		group   GroupKey
		status  StatusCode
		student string
	}
	seen := make(map[rawKey]bool)
	counts := make(map[GroupKey]map[StatusCode]int)

	for _, r := range rows {
		if _, ok := categoryOf(r.Status); !ok {
			continue
		}
		if len(statuses) > 0 && !wanted[r.Status] {
			continue
		}
		key := groupKeyOf(r)
		rk := rawKey{group: key, status: r.Status, student: r.StudentID}
		if seen[rk] {
			continue
		}
		seen[rk] = true
		if counts[key] == nil {
			counts[key] = make(map[StatusCode]int)
		}
		counts[key][r.Status]++
	}

	var out []StatusCount
	for key, byStatus := range counts {
		for status, n := range byStatus {
			out = append(out, StatusCount{GroupKey: key, Status: status, Students: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupKey != out[j].GroupKey {
			return less(out[i].GroupKey, out[j].GroupKey)
		}
		return out[i].Status < out[j].Status
	})
	return out
}

func groupKeyOf(r Row) GroupKey {
	return GroupKey{
		Campus:        r.Campus,
		College:       r.College,
		SubjectCourse: r.SubjectCourse,
		Term:          r.Term,
		TermType:      r.TermType,
	}
}

func countByGroup(rows []Row) map[GroupKey]*metricCounts {
	seen := make(map[studentKey]bool)
	counts := make(map[GroupKey]*metricCounts)

	bump := func(key GroupKey, cat Category, student string) bool {
		sk := studentKey{group: key, category: cat, student: student}
		if seen[sk] {
			return false
		}
		seen[sk] = true
		return true
	}

	for _, r := range rows {
		cat, ok := categoryOf(r.Status)
		if !ok {
			continue
		}
		key := groupKeyOf(r)
		c := counts[key]
		if c == nil {
			c = &metricCounts{}
			counts[key] = c
		}

		if bump(key, cat, r.StudentID) {
			switch cat {
			case CategoryRegistered:
				c.registered++
			case CategoryEarlyDrop:
				c.earlyDrop++
			case CategoryLateDrop:
				c.lateDrop++
			case CategoryWaitlist:
				c.waitlist++
			}
		}

		// Union categories count each student once even when the
		// student appears under both member categories.
		if cat == CategoryEarlyDrop || cat == CategoryLateDrop {
			if bump(key, CategoryAllDrop, r.StudentID) {
				c.allDrop++
			}
		}
		if cat != CategoryWaitlist {
			if bump(key, CategoryClassList, r.StudentID) {
				c.classList++
			}
		}
	}
	return counts
}

func less(a, b GroupKey) bool {
	if a.Campus != b.Campus {
		return a.Campus < b.Campus
	}
	if a.College != b.College {
		return a.College < b.College
	}
	if a.SubjectCourse != b.SubjectCourse {
		return a.SubjectCourse < b.SubjectCourse
	}
	if a.TermType != b.TermType {
		return a.TermType < b.TermType
	}
	return a.Term < b.Term
}
