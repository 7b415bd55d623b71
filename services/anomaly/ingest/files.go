// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ingest

import (
	"fmt"
	"os"

	"github.com/cedar-ir/cedar/services/anomaly/enrollment"
)

// LoadEnrollmentFile reads the enrollment table from a CSV file.
func LoadEnrollmentFile(path string) ([]enrollment.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening enrollment table: %w", err)
	}
	defer f.Close()

	rows, err := ReadEnrollment(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// LoadSectionsFile reads the section-availability table from a CSV
// file.
func LoadSectionsFile(path string) ([]enrollment.Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sections table: %w", err)
	}
	defer f.Close()

	sections, err := ReadSections(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sections, nil
}
