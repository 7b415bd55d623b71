// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detect

import (
	"sort"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

// sectionKey joins availability rows to statistics rows.
type sectionKey struct {
	Campus, College, Term, SubjectCourse string
}

// waits flags courses whose waitlist count exceeds MinWait. Not
// deviation-based. The general-education area is joined in from the
// availability table when present; output is sorted descending by
// waitlist size.
func (d *Detector) waits(stats []enrollment.GroupStats, sections []enrollment.Section, keepTerm map[string]bool) ([]WaitlistRecord, string) {
	if len(stats) == 0 {
		return nil, InsufficientData
	}

	genEd := make(map[sectionKey]string, len(sections))
	for _, s := range sections {
		genEd[sectionKey{s.Campus, s.College, s.Term, s.SubjectCourse}] = s.GenEdArea
	}

	var out []WaitlistRecord
	for _, s := range stats {
		if float64(s.Waitlist) <= d.cfg.MinWait {
			continue
		}
		if keepTerm != nil && !keepTerm[s.Term] {
			continue
		}
		out = append(out, WaitlistRecord{
			Campus:        s.Campus,
			College:       s.College,
			Term:          s.Term,
			SubjectCourse: s.SubjectCourse,
			GenEdArea:     genEd[sectionKey{s.Campus, s.College, s.Term, s.SubjectCourse}],
			Waitlisted:    s.Waitlist,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Waitlisted != out[j].Waitlisted {
			return out[i].Waitlisted > out[j].Waitlisted
		}
		if out[i].SubjectCourse != out[j].SubjectCourse {
			return out[i].SubjectCourse < out[j].SubjectCourse
		}
		return out[i].Term < out[j].Term
	})
	return out, ""
}
