// Copyright (C) 2026 Cedar Institutional Research Group
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resultcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache behavior.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cedar_anomaly_cache_hits_total",
		Help: "Result cache hits",
	})

	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cedar_anomaly_cache_misses_total",
		Help: "Result cache misses by reason",
	}, []string{"reason"})

	cacheWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cedar_anomaly_cache_writes_total",
		Help: "Result cache writes",
	})

	cacheEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cedar_anomaly_cache_evictions_total",
		Help: "Cache files removed by the retention policy",
	})

	cacheEvictionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cedar_anomaly_cache_eviction_failures_total",
		Help: "Best-effort eviction failures (logged, not raised)",
	})
)

// Miss reasons for cacheMissesTotal.
const (
	missAbsent  = "absent"
	missExpired = "expired"
	missDecode  = "decode_error"
)
