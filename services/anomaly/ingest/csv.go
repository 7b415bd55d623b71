// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ingest loads the raw enrollment and section-availability
// tables from CSV exports.
//
// Schema violations are fatal and name the specific missing columns:
// silently substituting guessed columns would corrupt the statistical
// baselines downstream.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

// Required columns for the enrollment table.
var enrollmentColumns = []string{
	"campus",
	"college",
	"subject_course",
	"term",
	"term_type",
	"student_id",
	"registration_status",
}

// Required columns for the section-availability table. gen_ed_area is
// optional and defaults to empty.
var sectionColumns = []string{
	"campus",
	"college",
	"subject_course",
	"term",
	"enrolled",
	"available",
	"waitlisted",
}

// ReadEnrollment parses the raw enrollment table.
func ReadEnrollment(r io.Reader) ([]enrollment.Row, error) {
	records, cols, err := readTable(r, "enrollment", enrollmentColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]enrollment.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, enrollment.Row{
			Campus:        rec[cols["campus"]],
			College:       rec[cols["college"]],
			SubjectCourse: rec[cols["subject_course"]],
			Term:          rec[cols["term"]],
			TermType:      rec[cols["term_type"]],
			StudentID:     rec[cols["student_id"]],
			Status:        enrollment.StatusCode(rec[cols["registration_status"]]),
		})
	}
	return rows, nil
}

// ReadSections parses the section-availability table.
func ReadSections(r io.Reader) ([]enrollment.Section, error) {
	records, cols, err := readTable(r, "sections", sectionColumns)
	if err != nil {
		return nil, err
	}

	genEdCol, hasGenEd := cols["gen_ed_area"]

	sections := make([]enrollment.Section, 0, len(records))
	for i, rec := range records {
		enrolled, err := atoi(rec[cols["enrolled"]])
		if err != nil {
			return nil, fmt.Errorf("sections row %d: enrolled: %w", i+2, err)
		}
		available, err := atoi(rec[cols["available"]])
		if err != nil {
			return nil, fmt.Errorf("sections row %d: available: %w", i+2, err)
		}
		waitlisted, err := atoi(rec[cols["waitlisted"]])
		if err != nil {
			return nil, fmt.Errorf("sections row %d: waitlisted: %w", i+2, err)
		}

		s := enrollment.Section{
			Campus:        rec[cols["campus"]],
			College:       rec[cols["college"]],
			SubjectCourse: rec[cols["subject_course"]],
			Term:          rec[cols["term"]],
			Enrolled:      enrolled,
			Available:     available,
			Waitlisted:    waitlisted,
		}
		if hasGenEd {
			s.GenEdArea = rec[genEdCol]
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// readTable reads a CSV with a header row and verifies the required
// columns, reporting every missing column by name.
func readTable(r io.Reader, table string, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s header: %w", table, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, fmt.Errorf("%s table missing required columns: %s", table, strings.Join(missing, ", "))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s rows: %w", table, err)
	}
	return records, cols, nil
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a count: %q", s)
	}
	return n, nil
}
