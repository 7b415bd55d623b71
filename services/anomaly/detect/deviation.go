// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detect

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// popStdDev is the population standard deviation: divide by N, not
// N-1. The observed terms are the entire population of interest, not a
// sample.
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.PopStdDev(values, nil)
}

// clampedDeviation scores an observation against its baseline in SD
// units. A zero, NaN, or infinite SD clamps the deviation to 0: a
// flat or degenerate series is never anomalous.
func clampedDeviation(observed, mean, sd float64) float64 {
	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0
	}
	d := (observed - mean) / sd
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

// impactedMagnitude is the absolute student-count impact, signed per
// direction so it is non-negative when the anomaly lies on the
// category's side of the baseline.
func impactedMagnitude(observed, mean float64, dir Direction) float64 {
	if dir == DirectionLow {
		return mean - observed
	}
	return observed - mean
}
