// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package detect

// Severity cut points in standard-deviation units.
const (
	criticalCut = 1.5
	moderateCut = 1.0
	marginalCut = 0.5
)

// assignTier maps a signed deviation to a severity tier.
//
// Direction-aware: a high-direction category only reacts to positive
// deviation and never emits a _low tier; a low-direction category only
// reacts to negative deviation and never emits a _high tier.
func assignTier(deviation float64, dir Direction) Tier {
	switch dir {
	case DirectionHigh:
		switch {
		case deviation >= criticalCut:
			return TierCriticalHigh
		case deviation >= moderateCut:
			return TierModerateHigh
		case deviation >= marginalCut:
			return TierMarginallyHigh
		}
	case DirectionLow:
		switch {
		case deviation <= -criticalCut:
			return TierCriticalLow
		case deviation <= -moderateCut:
			return TierModerateLow
		case deviation <= -marginalCut:
			return TierMarginallyLow
		}
	}
	return TierNormal
}
