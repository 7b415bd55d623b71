// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detect

import (
	"math"
	"testing"
)

func TestAssignTierMonotonicHigh(t *testing.T) {
	// Increasing |deviation| walks the high tiers in order and never
	// produces a _low tier.
	cases := []struct {
		deviation float64
		want      Tier
	}{
		{0.0, TierNormal},
		{0.4, TierNormal},
		{0.5, TierMarginallyHigh},
		{0.6, TierMarginallyHigh},
		{1.0, TierModerateHigh},
		{1.2, TierModerateHigh},
		{1.5, TierCriticalHigh},
		{1.6, TierCriticalHigh},
		{10, TierCriticalHigh},
	}
	for _, tc := range cases {
		if got := assignTier(tc.deviation, DirectionHigh); got != tc.want {
			t.Errorf("assignTier(%v, high) = %v, want %v", tc.deviation, got, tc.want)
		}
	}
}

func TestAssignTierMonotonicLow(t *testing.T) {
	cases := []struct {
		deviation float64
		want      Tier
	}{
		{0.0, TierNormal},
		{-0.4, TierNormal},
		{-0.5, TierMarginallyLow},
		{-1.0, TierModerateLow},
		{-1.5, TierCriticalLow},
		{-10, TierCriticalLow},
	}
	for _, tc := range cases {
		if got := assignTier(tc.deviation, DirectionLow); got != tc.want {
			t.Errorf("assignTier(%v, low) = %v, want %v", tc.deviation, got, tc.want)
		}
	}
}

func TestAssignTierDirectionPurity(t *testing.T) {
	// A high category ignores negative deviation entirely, and vice
	// versa: the wrong-direction tail is always normal.
	for _, d := range []float64{-0.6, -1.1, -2.0} {
		if got := assignTier(d, DirectionHigh); got != TierNormal {
			t.Errorf("assignTier(%v, high) = %v, want normal", d, got)
		}
	}
	for _, d := range []float64{0.6, 1.1, 2.0} {
		if got := assignTier(d, DirectionLow); got != TierNormal {
			t.Errorf("assignTier(%v, low) = %v, want normal", d, got)
		}
	}
}

func TestPopStdDevMatchesDirectFormula(t *testing.T) {
	// The value used downstream must equal the direct
	// sum-of-squared-deviations formula with divisor N, not N-1.
	values := []float64{-12.5, -10.5, -14.5, 37.5}

	var sumSq float64
	for _, v := range values {
		sumSq += v * v
	}
	want := math.Sqrt(sumSq / float64(len(values)))

	got := popStdDev(values)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("popStdDev = %v, want %v (population formula)", got, want)
	}
}

func TestPopStdDevEmpty(t *testing.T) {
	if got := popStdDev(nil); got != 0 {
		t.Errorf("popStdDev(nil) = %v, want 0", got)
	}
}

func TestClampedDeviation(t *testing.T) {
	cases := []struct {
		name               string
		observed, mean, sd float64
		want               float64
	}{
		{"normal", 60, 50, 5, 2},
		{"zero sd clamps", 100, 50, 0, 0},
		{"nan sd clamps", 100, 50, math.NaN(), 0},
		{"inf sd clamps", 100, 50, math.Inf(1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampedDeviation(tc.observed, tc.mean, tc.sd); got != tc.want {
				t.Errorf("clampedDeviation(%v, %v, %v) = %v, want %v",
					tc.observed, tc.mean, tc.sd, got, tc.want)
			}
		})
	}
}

func TestImpactedMagnitude(t *testing.T) {
	if got := impactedMagnitude(70, 50, DirectionHigh); got != 20 {
		t.Errorf("high impacted = %v, want 20", got)
	}
	if got := impactedMagnitude(30, 50, DirectionLow); got != 20 {
		t.Errorf("low impacted = %v, want 20", got)
	}
}
