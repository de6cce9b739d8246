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

package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMonitorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("catalog", time.Now())
	m.ObserveRequest("catalog", time.Now())
	m.ObserveRequest("stream", time.Now())
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheMiss()
	m.RecordError()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("catalog")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("stream")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errors))
}

func TestProviderUpGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetProviderUp(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.providerUp))

	m.SetProviderUp(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.providerUp))
}
