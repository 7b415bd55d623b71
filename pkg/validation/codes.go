// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for user-supplied filter
// codes.
//
// Filter values arrive from CLI flags and HTTP request bodies and end
// up embedded in cache filenames and report output. Validating them at
// the boundary keeps path separators, control characters, and other
// surprises out of those downstream uses.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// termPattern matches Banner-style term codes: a four-digit year
// followed by a two-digit part-of-term (e.g. 202580 for fall 2025).
var termPattern = regexp.MustCompile(`^\d{6}$`)

// codePattern matches college and campus codes: short uppercase
// alphanumeric identifiers, hyphens allowed (e.g. AS, EN, ABQ, ON-L).
var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{0,9}$`)

// ValidateTermCode validates a registration term code.
//
// Valid term codes are exactly six digits: YYYYPP, where PP is the
// institution's part-of-term suffix (10 spring, 60 summer, 80 fall).
func ValidateTermCode(term string) error {
	if term == "" {
		return fmt.Errorf("term code cannot be empty")
	}
	if !termPattern.MatchString(term) {
		return fmt.Errorf("invalid term code: %q (must be six digits, e.g. 202580)", term)
	}
	return nil
}

// ValidateTermCodes validates multiple term codes, reporting every
// invalid value rather than stopping at the first.
func ValidateTermCodes(terms []string) error {
	var invalid []string
	for _, term := range terms {
		if err := ValidateTermCode(term); err != nil {
			invalid = append(invalid, term)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid term codes: %v", invalid)
	}
	return nil
}

// ValidateOrgCode validates a college or campus code.
func ValidateOrgCode(code string) error {
	if code == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if !codePattern.MatchString(code) {
		return fmt.Errorf("invalid code: %q (must be 1-10 uppercase alphanumeric chars or hyphens)", code)
	}
	return nil
}

// ValidateOrgCodes validates multiple college or campus codes.
func ValidateOrgCodes(codes []string) error {
	var invalid []string
	for _, code := range codes {
		if err := ValidateOrgCode(code); err != nil {
			invalid = append(invalid, code)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid codes: %v", invalid)
	}
	return nil
}

// SanitizeOrgCode normalizes and validates a college or campus code.
// Returns the uppercase code if valid.
func SanitizeOrgCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := ValidateOrgCode(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
