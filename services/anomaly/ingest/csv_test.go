// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

func TestReadEnrollment(t *testing.T) {
	in := strings.NewReader(
		"campus,college,subject_course,term,term_type,student_id,registration_status\n" +
			"ABQ,AS,HIST 1105,202580,fall,S001,RE\n" +
			"ABQ,AS,HIST 1105,202580,fall,S002,WL\n")

	rows, err := ReadEnrollment(in)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, enrollment.Row{
		Campus:        "ABQ",
		College:       "AS",
		SubjectCourse: "HIST 1105",
		Term:          "202580",
		TermType:      "fall",
		StudentID:     "S001",
		Status:        enrollment.StatusRegistered,
	}, rows[0])
	assert.Equal(t, enrollment.StatusWaitlisted, rows[1].Status)
}

func TestReadEnrollmentColumnOrderIrrelevant(t *testing.T) {
	in := strings.NewReader(
		"registration_status,student_id,term_type,term,subject_course,college,campus\n" +
			"RE,S001,fall,202580,HIST 1105,AS,ABQ\n")

	rows, err := ReadEnrollment(in)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ABQ", rows[0].Campus)
	assert.Equal(t, "S001", rows[0].StudentID)
}

func TestReadEnrollmentMissingColumnsNamed(t *testing.T) {
	in := strings.NewReader("campus,college,subject_course\nABQ,AS,HIST 1105\n")

	_, err := ReadEnrollment(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrollment table missing required columns")
	for _, col := range []string{"registration_status", "student_id", "term", "term_type"} {
		assert.Contains(t, err.Error(), col)
	}
}

func TestReadSections(t *testing.T) {
	in := strings.NewReader(
		"campus,college,subject_course,term,gen_ed_area,enrolled,available,waitlisted\n" +
			"ABQ,AS,HIST 1105,202580,Area 1,95,5,12\n" +
			"ABQ,AS,MATH 1215,202580,,120,0,\n")

	sections, err := ReadSections(in)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, enrollment.Section{
		Campus:        "ABQ",
		College:       "AS",
		SubjectCourse: "HIST 1105",
		Term:          "202580",
		GenEdArea:     "Area 1",
		Enrolled:      95,
		Available:     5,
		Waitlisted:    12,
	}, sections[0])
	assert.Equal(t, 0, sections[1].Waitlisted, "blank count parses as zero")
}

func TestReadSectionsGenEdOptional(t *testing.T) {
	in := strings.NewReader(
		"campus,college,subject_course,term,enrolled,available,waitlisted\n" +
			"ABQ,AS,HIST 1105,202580,95,5,12\n")

	sections, err := ReadSections(in)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].GenEdArea)
}

func TestReadSectionsBadCount(t *testing.T) {
	in := strings.NewReader(
		"campus,college,subject_course,term,enrolled,available,waitlisted\n" +
			"ABQ,AS,HIST 1105,202580,ninety,5,12\n")

	_, err := ReadSections(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "enrolled")
}

func TestReadEnrollmentHeaderCaseInsensitive(t *testing.T) {
	in := strings.NewReader(
		"Campus,College,Subject_Course,Term,Term_Type,Student_ID,Registration_Status\n" +
			"ABQ,AS,HIST 1105,202580,fall,S001,RE\n")

	rows, err := ReadEnrollment(in)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
