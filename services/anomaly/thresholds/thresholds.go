// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package thresholds resolves caller-supplied anomaly thresholds
// against the documented defaults and decides cache eligibility.
//
// Eligibility is a per-field semantic comparison, not a whole-object
// identity test: a partial override whose every supplied field matches
// the default is still served from the shared cache.
package thresholds

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Config is a fully resolved threshold set. Every field carries a
// value; optional semantics live in Overrides.
type Config struct {
	// MinImpacted is the minimum absolute student-count impact for a
	// record to be flagged.
	MinImpacted float64 `json:"min_impacted"`

	// PctSD is the minimum |deviation| in standard-deviation units.
	PctSD float64 `json:"pct_sd"`

	// MinSqueeze is the maximum allowed available/historical-drop
	// ratio before a section counts as seat-squeezed.
	MinSqueeze float64 `json:"min_squeeze"`

	// MinWait is the minimum waitlist count to flag.
	MinWait float64 `json:"min_wait"`

	// SectionProximity is a reserved tie-break parameter. Carried and
	// validated but not consulted by the filtering logic.
	SectionProximity float64 `json:"section_proximity"`
}

// Defaults returns the documented default thresholds. Runs using
// exactly these values are eligible for the shared result cache.
func Defaults() Config {
	return Config{
		MinImpacted:      20,
		PctSD:            1.0,
		MinSqueeze:       0.2,
		MinWait:          20,
		SectionProximity: 0.9,
	}
}

// Overrides is a caller-supplied partial threshold set. Nil fields
// mean "use the default for that field."
type Overrides struct {
	MinImpacted      *float64 `json:"min_impacted,omitempty" validate:"omitempty,gte=0"`
	PctSD            *float64 `json:"pct_sd,omitempty" validate:"omitempty,gte=0"`
	MinSqueeze       *float64 `json:"min_squeeze,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinWait          *float64 `json:"min_wait,omitempty" validate:"omitempty,gte=0"`
	SectionProximity *float64 `json:"section_proximity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// validate is the shared validator instance for threshold overrides.
var validate = validator.New()

// Validate checks the override ranges. A nil receiver is valid.
func (o *Overrides) Validate() error {
	if o == nil {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid threshold overrides: %w", err)
	}
	return nil
}

// Resolve merges overrides with the defaults and reports cache
// eligibility.
//
// A nil or empty override resolves to the defaults and is eligible.
// If every supplied field compares numerically equal to its default,
// the run uses the default values for consistency and stays eligible.
// Any differing field yields the merged config and marks the run
// ineligible. NaN never compares equal, so a NaN override is always
// ineligible.
func Resolve(o *Overrides) (Config, bool) {
	def := Defaults()
	if o == nil {
		return def, true
	}

	merged := def
	eligible := true

	apply := func(dst *float64, src *float64) {
		if src == nil {
			return
		}
		if !sameValue(*src, *dst) {
			eligible = false
		}
		*dst = *src
	}

	apply(&merged.MinImpacted, o.MinImpacted)
	apply(&merged.PctSD, o.PctSD)
	apply(&merged.MinSqueeze, o.MinSqueeze)
	apply(&merged.MinWait, o.MinWait)
	apply(&merged.SectionProximity, o.SectionProximity)

	if eligible {
		// All supplied fields match: use the defaults verbatim so the
		// cached artifact records the canonical configuration.
		return def, true
	}
	return merged, false
}

// Equal reports field-wise semantic equality of two configs.
func Equal(a, b Config) bool {
	return sameValue(a.MinImpacted, b.MinImpacted) &&
		sameValue(a.PctSD, b.PctSD) &&
		sameValue(a.MinSqueeze, b.MinSqueeze) &&
		sameValue(a.MinWait, b.MinWait) &&
		sameValue(a.SectionProximity, b.SectionProximity)
}

// sameValue is exact numeric equality with NaN never equal to
// anything, including itself.
func sameValue(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b
}
