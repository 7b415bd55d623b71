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

// squeezes joins current-term availability with the historical all-drop
// baseline. A low available/historical-drop ratio means little slack
// relative to the drop volume the course usually sheds, so it is
// likely to become seat-constrained as the term progresses.
//
// Flagged when enrolled >= MinImpacted and ratio < MinSqueeze. An
// empty availability table short-circuits with an insufficient-data
// note: detection over an empty population is undefined, not an error.
func (d *Detector) squeezes(stats []enrollment.GroupStats, sections []enrollment.Section, keepTerm map[string]bool) ([]SqueezeRecord, string) {
	if len(sections) == 0 {
		return nil, InsufficientData
	}

	dropMean := make(map[sectionKey]float64, len(stats))
	for _, s := range stats {
		dropMean[sectionKey{s.Campus, s.College, s.Term, s.SubjectCourse}] = s.AllDropMean
	}

	var out []SqueezeRecord
	for _, s := range sections {
		mean, ok := dropMean[sectionKey{s.Campus, s.College, s.Term, s.SubjectCourse}]
		if !ok || mean <= 0 {
			// No drop history for this section; the ratio is
			// undefined and the section cannot be scored.
			continue
		}
		if keepTerm != nil && !keepTerm[s.Term] {
			continue
		}
		ratio := float64(s.Available) / mean
		if float64(s.Enrolled) < d.cfg.MinImpacted || ratio >= d.cfg.MinSqueeze {
			continue
		}
		out = append(out, SqueezeRecord{
			Campus:        s.Campus,
			College:       s.College,
			Term:          s.Term,
			SubjectCourse: s.SubjectCourse,
			Enrolled:      s.Enrolled,
			Available:     s.Available,
			AllDropMean:   mean,
			Ratio:         ratio,
		})
	}

	// Tightest squeezes first.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio < out[j].Ratio
		}
		return out[i].SubjectCourse < out[j].SubjectCourse
	})
	return out, ""
}
