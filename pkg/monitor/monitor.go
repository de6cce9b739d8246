/*
 * Iptv-Addon is a self-hosted Stremio addon that aggregates Xtream-Codes
 * and M3U IPTV catalogs.
 * Copyright (C) 2026  Stremify
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package monitor exposes request, cache and provider-health metrics.
package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Monitor bundles the addon's prometheus collectors.
type Monitor struct {
	requests     *prometheus.CounterVec
	responseTime prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	errors       prometheus.Counter
	providerUp   prometheus.Gauge
}

// New registers the collectors on reg and returns the monitor.
func New(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)

	return &Monitor{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iptv_addon_requests_total",
			Help: "Addon requests by resource (catalog, meta, stream, manifest).",
		}, []string{"resource"}),
		responseTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "iptv_addon_response_seconds",
			Help:    "Addon request handling time.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "iptv_addon_cache_hits_total",
			Help: "Catalog cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "iptv_addon_cache_misses_total",
			Help: "Catalog cache misses.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "iptv_addon_errors_total",
			Help: "Requests that ended in an internal error.",
		}),
		providerUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "iptv_addon_provider_up",
			Help: "1 when the last provider probe succeeded.",
		}),
	}
}

// ObserveRequest records one handled request and its duration.
func (m *Monitor) ObserveRequest(resource string, start time.Time) {
	m.requests.WithLabelValues(resource).Inc()
	m.responseTime.Observe(time.Since(start).Seconds())
}

// RecordCacheHit counts a catalog cache hit.
func (m *Monitor) RecordCacheHit() {
	m.cacheHits.Inc()
}

// RecordCacheMiss counts a catalog cache miss.
func (m *Monitor) RecordCacheMiss() {
	m.cacheMisses.Inc()
}

// RecordError counts a failed request.
func (m *Monitor) RecordError() {
	m.errors.Inc()
}

// SetProviderUp publishes the provider reachability state.
func (m *Monitor) SetProviderUp(up bool) {
	if up {
		m.providerUp.Set(1)
	} else {
		m.providerUp.Set(0)
	}
}
