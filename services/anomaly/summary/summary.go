// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package summary cross-tabulates flagged anomaly records by category
// and severity tier into a single reporting table.
package summary

import (
	"sort"

	"github.com/cedar-ir/cedar/services/anomaly/detect"
)

// Row is one line of the tier summary: tier counts for one category
// plus severity roll-ups. Absent tier/category combinations are 0.
type Row struct {
	Category detect.Category `json:"category"`

	CriticalHigh   int `json:"critical_high"`
	ModerateHigh   int `json:"moderate_high"`
	MarginallyHigh int `json:"marginally_high"`
	CriticalLow    int `json:"critical_low"`
	ModerateLow    int `json:"moderate_low"`
	MarginallyLow  int `json:"marginally_low"`

	CriticalTotal int `json:"critical_total"`
	ModerateTotal int `json:"moderate_total"`
	MarginalTotal int `json:"marginal_total"`
}

// Summarize builds the tier cross-tab over the categories that carry a
// tier column. Rows are ordered by descending critical total, then
// moderate, then marginal, so the courses needing the most urgent
// attention surface first.
func Summarize(res *detect.Results) []Row {
	if res == nil {
		return nil
	}

	categories := []struct {
		name    detect.Category
		records []detect.AnomalyRecord
	}{
		{detect.CategoryEarlyDrops, res.EarlyDrops},
		{detect.CategoryLateDrops, res.LateDrops},
		{detect.CategoryDips, res.Dips},
		{detect.CategoryBumps, res.Bumps},
	}

	rows := make([]Row, 0, len(categories))
	for _, cat := range categories {
		row := Row{Category: cat.name}
		for _, r := range cat.records {
			switch r.Tier {
			case detect.TierCriticalHigh:
				row.CriticalHigh++
			case detect.TierModerateHigh:
				row.ModerateHigh++
			case detect.TierMarginallyHigh:
				row.MarginallyHigh++
			case detect.TierCriticalLow:
				row.CriticalLow++
			case detect.TierModerateLow:
				row.ModerateLow++
			case detect.TierMarginallyLow:
				row.MarginallyLow++
			}
		}
		row.CriticalTotal = row.CriticalHigh + row.CriticalLow
		row.ModerateTotal = row.ModerateHigh + row.ModerateLow
		row.MarginalTotal = row.MarginallyHigh + row.MarginallyLow
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CriticalTotal != rows[j].CriticalTotal {
			return rows[i].CriticalTotal > rows[j].CriticalTotal
		}
		if rows[i].ModerateTotal != rows[j].ModerateTotal {
			return rows[i].ModerateTotal > rows[j].ModerateTotal
		}
		return rows[i].MarginalTotal > rows[j].MarginalTotal
	})
	return rows
}
