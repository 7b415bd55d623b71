// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package enrollment

import (
	"gonum.org/v1/gonum/stat"
)

// fillBaselines computes the per-metric baseline means in place.
//
// The partition is (campus, college, course, term type); the mean is
// taken over every term the partition was observed in, on the
// zero-filled table. A metric absent in a term contributes 0 and the
// divisor stays the number of terms present.
func fillBaselines(stats []GroupStats) {
	partitions := make(map[baselineKey][]int, len(stats))
	for i := range stats {
		bk := stats[i].GroupKey.baseline()
		partitions[bk] = append(partitions[bk], i)
	}

	for _, idx := range partitions {
		means := partitionMeans(stats, idx)
		for _, i := range idx {
			stats[i].RegisteredMean = means.registered
			stats[i].EarlyDropMean = means.earlyDrop
			stats[i].LateDropMean = means.lateDrop
			stats[i].AllDropMean = means.allDrop
			stats[i].WaitlistMean = means.waitlist
			stats[i].ClassListMean = means.classList
		}
	}
}

type baselineMeans struct {
	registered float64
	earlyDrop  float64
	lateDrop   float64
	allDrop    float64
	waitlist   float64
	classList  float64
}

func partitionMeans(stats []GroupStats, idx []int) baselineMeans {
	n := len(idx)
	registered := make([]float64, 0, n)
	earlyDrop := make([]float64, 0, n)
	lateDrop := make([]float64, 0, n)
	allDrop := make([]float64, 0, n)
	waitlist := make([]float64, 0, n)
	classList := make([]float64, 0, n)

	for _, i := range idx {
		registered = append(registered, float64(stats[i].Registered))
		earlyDrop = append(earlyDrop, float64(stats[i].EarlyDrop))
		lateDrop = append(lateDrop, float64(stats[i].LateDrop))
		allDrop = append(allDrop, float64(stats[i].AllDrop))
		waitlist = append(waitlist, float64(stats[i].Waitlist))
		classList = append(classList, float64(stats[i].ClassList))
	}

	return baselineMeans{
		registered: stat.Mean(registered, nil),
		earlyDrop:  stat.Mean(earlyDrop, nil),
		lateDrop:   stat.Mean(lateDrop, nil),
		allDrop:    stat.Mean(allDrop, nil),
		waitlist:   stat.Mean(waitlist, nil),
		classList:  stat.Mean(classList, nil),
	}
}
