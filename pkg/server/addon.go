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

package server

import (
	"context"
	"encoding/json"

	"github.com/stremify/iptv-addon/pkg/catalog"
	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/stremio"
	"github.com/stremify/iptv-addon/pkg/utils"
)

const (
	addonID      = "community.iptv.selfhosted"
	addonName    = "IPTV"
	addonVersion = "2.0.0"

	// Serialized manifests above this size are rejected by clients.
	manifestSizeCeiling = 8 * 1024

	catalogPageSize = 100
)

// addonHandle is one built addon: the catalog engine plus its manifest,
// cached per configuration fingerprint.
type addonHandle struct {
	engine   *catalog.Engine
	manifest *stremio.Manifest
}

// addonForConfig returns the addon handle for a decoded configuration,
// building and caching it on miss. The bulk load runs under a background
// context so an abandoned request still completes the cache population.
func (c *Config) addonForConfig(cfg *config.ProviderConfig, fingerprint string) (*addonHandle, error) {
	if c.CacheEnabled {
		if handle, ok := c.addonCache.Get(fingerprint); ok {
			c.metrics.RecordCacheHit()
			return handle, nil
		}
		c.metrics.RecordCacheMiss()
	}

	loader, err := catalog.NewLoader(cfg, c.checker)
	if err != nil {
		return nil, err
	}

	snapshot, ok := c.snapshotFor(fingerprint)
	if !ok {
		snapshot = loader.Load(context.Background())
		if c.CacheEnabled {
			c.dataCache.Set(fingerprint, snapshot)
		}
	}

	reachable, _, _ := c.checker.Status()
	c.metrics.SetProviderUp(reachable)

	var source catalog.StreamSource
	if client := loader.Client(); client != nil {
		source = client
	}

	handle := &addonHandle{
		engine:   catalog.NewEngine(snapshot, source),
		manifest: c.buildManifest(snapshot),
	}
	if c.CacheEnabled {
		c.addonCache.Set(fingerprint, handle)
	}

	utils.InfoLog("Addon built for fingerprint %s: %d items", fingerprint, snapshot.Len())
	return handle, nil
}

func (c *Config) snapshotFor(fingerprint string) (*catalog.Snapshot, bool) {
	if !c.CacheEnabled {
		return nil, false
	}
	return c.dataCache.Get(fingerprint)
}

// buildManifest declares the three catalogs with their genre options drawn
// from the snapshot's category indexes.
func (c *Config) buildManifest(snapshot *catalog.Snapshot) *stremio.Manifest {
	manifest := &stremio.Manifest{
		ID:          addonID,
		Version:     addonVersion,
		Name:        addonName,
		Description: "Self-hosted IPTV addon with caching to reduce server load",
		Logo:        "https://via.placeholder.com/256x256/4CAF50/ffffff?text=IPTV",
		Resources:   []string{"catalog", "meta", "stream"},
		Types:       []stremio.ContentType{stremio.ContentTypeTV, stremio.ContentTypeMovie, stremio.ContentTypeSeries},
		Catalogs: []stremio.Catalog{
			{
				Type:  stremio.ContentTypeTV,
				ID:    "iptv_live",
				Name:  "IPTV",
				Extra: catalogExtras("All Channels", snapshot.Categories[catalog.KindTV], 20),
			},
			{
				Type:  stremio.ContentTypeMovie,
				ID:    "iptv_movies",
				Name:  "Movies",
				Extra: catalogExtras("All Movies", snapshot.Categories[catalog.KindMovie], 15),
			},
			{
				Type:  stremio.ContentTypeSeries,
				ID:    "iptv_series",
				Name:  "Series",
				Extra: catalogExtras("All Series", snapshot.Categories[catalog.KindSeries], 10),
			},
		},
		IDPrefixes: []string{"live_", "vod_", "series_"},
		BehaviorHints: &stremio.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: false,
		},
	}

	return enforceManifestCeiling(manifest)
}

func catalogExtras(allLabel string, categories []string, limit int) []stremio.Extra {
	if len(categories) > limit {
		categories = categories[:limit]
	}
	options := make([]string, 0, len(categories)+1)
	options = append(options, allLabel)
	options = append(options, categories...)

	return []stremio.Extra{
		{Name: "genre", Options: options},
		{Name: "search"},
		{Name: "skip"},
	}
}

// enforceManifestCeiling trims genre option lists until the serialized
// manifest fits under the 8 KB protocol ceiling.
func enforceManifestCeiling(manifest *stremio.Manifest) *stremio.Manifest {
	for {
		encoded, err := json.Marshal(manifest)
		if err != nil || len(encoded) <= manifestSizeCeiling {
			return manifest
		}

		trimmed := false
		for ci := range manifest.Catalogs {
			for ei := range manifest.Catalogs[ci].Extra {
				options := manifest.Catalogs[ci].Extra[ei].Options
				// Keep the "All…" label, halve the rest.
				if len(options) > 1 {
					manifest.Catalogs[ci].Extra[ei].Options = options[:1+(len(options)-1)/2]
					trimmed = true
				}
			}
		}
		if !trimmed {
			utils.WarnLog("Manifest exceeds %d bytes even with empty genre lists", manifestSizeCeiling)
			return manifest
		}
	}
}
