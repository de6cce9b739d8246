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

package catalog

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/health"
	"github.com/stremify/iptv-addon/pkg/playlist"
	"github.com/stremify/iptv-addon/pkg/utils"
	"github.com/stremify/iptv-addon/pkg/xtream"
)

var errNoXtream = errors.New("no xtream credentials configured")

// Loader builds catalog snapshots from one provider configuration. The
// strategies run in order: Xtream bulk load, M3U playlist, degraded
// log-only probing. The first success wins; when everything fails the
// result is an empty snapshot, never an error.
type Loader struct {
	cfg     *config.ProviderConfig
	client  *xtream.Client
	checker *health.Checker

	httpClient *http.Client
}

// NewLoader builds a loader. The Xtream client is only constructed when
// the configuration carries panel credentials.
func NewLoader(cfg *config.ProviderConfig, checker *health.Checker) (*Loader, error) {
	l := &Loader{
		cfg:     cfg,
		checker: checker,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}

	if cfg.HasXtream() {
		client, err := xtream.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		l.client = client
	}

	return l, nil
}

// Client exposes the panel client for lazy episode resolution, nil for
// M3U-only configurations.
func (l *Loader) Client() *xtream.Client {
	return l.client
}

type strategy struct {
	name string
	run  func(ctx context.Context) (*Snapshot, error)
}

// Load runs the strategy chain and always returns a snapshot.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	strategies := []strategy{
		{"xtream api", l.loadXtream},
		{"m3u playlist", l.loadM3U},
		{"degraded direct calls", l.loadDegraded},
	}

	for _, s := range strategies {
		snapshot, err := s.run(ctx)
		if err != nil {
			utils.WarnLog("Catalog strategy %q failed: %v", s.name, err)
			continue
		}
		utils.InfoLog("Catalog loaded via %s: %d channels, %d movies, %d series",
			s.name, len(snapshot.Channels), len(snapshot.Movies), len(snapshot.Series))
		return snapshot
	}

	utils.WarnLog("All catalog strategies failed, serving empty catalog")
	return EmptySnapshot()
}

// loadXtream is the primary path: probe, then the bulk lists and their
// category maps, each call under bounded retry.
func (l *Loader) loadXtream(ctx context.Context) (*Snapshot, error) {
	if l.client == nil {
		return nil, errNoXtream
	}

	err := health.WithRetry(ctx, l.client.Probe)
	l.checker.Record(err)
	if err != nil {
		return nil, err
	}

	var (
		live       []xtream.LiveStream
		vod        []xtream.VodStream
		seriesList []xtream.Series
		liveCats   xtream.CategoryMap
		vodCats    xtream.CategoryMap
		seriesCats xtream.CategoryMap
	)

	steps := []func(context.Context) error{
		func(ctx context.Context) (err error) { live, err = l.client.LiveStreams(ctx); return },
		func(ctx context.Context) (err error) { vod, err = l.client.VodStreams(ctx); return },
		func(ctx context.Context) (err error) { seriesList, err = l.client.SeriesList(ctx); return },
		func(ctx context.Context) (err error) { liveCats, err = l.client.LiveCategories(ctx); return },
		func(ctx context.Context) (err error) { vodCats, err = l.client.VodCategories(ctx); return },
		func(ctx context.Context) (err error) { seriesCats, err = l.client.SeriesCategories(ctx); return },
	}
	for _, step := range steps {
		if err := health.WithRetry(ctx, step); err != nil {
			return nil, err
		}
	}

	channels := FromLiveStreams(live, liveCats, l.client)
	movies := FromVodStreams(vod, vodCats, l.client)
	series := FromSeriesList(seriesList, seriesCats, l.client)

	// Category inference only fires when the panel returned no live
	// categories at all, not when individual items missed theirs.
	if len(liveCats) == 0 && len(channels) > 0 {
		utils.InfoLog("Panel returned no live categories, inferring from channel names")
		InferCategories(channels, DefaultLiveCategory)
	}

	return NewSnapshot(channels, movies, series), nil
}

// loadM3U is the playlist fallback: a configured M3U URL wins, otherwise
// the panel's get.php playlist.
func (l *Loader) loadM3U(ctx context.Context) (*Snapshot, error) {
	switch {
	case l.cfg.M3UURL != "":
		pl, err := playlist.Fetch(l.httpClient, l.cfg.M3UURL)
		if err != nil {
			return nil, err
		}
		return NewSnapshot(FromPlaylist(pl), nil, nil), nil
	case l.client != nil:
		body, err := l.client.FetchPlaylist(ctx)
		if err != nil {
			return nil, err
		}
		pl, err := playlist.ParseBytes(body)
		if err != nil {
			return nil, err
		}
		return NewSnapshot(FromPlaylist(pl), nil, nil), nil
	}
	return nil, errors.New("no m3u source available")
}

// loadDegraded probes the list endpoints one by one, logging counts only.
// It succeeds with an empty catalog so the caller keeps serving instead of
// crashing.
func (l *Loader) loadDegraded(ctx context.Context) (*Snapshot, error) {
	if l.client == nil {
		return nil, errNoXtream
	}

	if live, err := l.client.LiveStreams(ctx); err == nil {
		utils.InfoLog("Degraded probe: get_live_streams answered %d records", len(live))
	} else {
		utils.WarnLog("Degraded probe: get_live_streams failed: %v", err)
	}
	if vod, err := l.client.VodStreams(ctx); err == nil {
		utils.InfoLog("Degraded probe: get_vod_streams answered %d records", len(vod))
	} else {
		utils.WarnLog("Degraded probe: get_vod_streams failed: %v", err)
	}
	if series, err := l.client.SeriesList(ctx); err == nil {
		utils.InfoLog("Degraded probe: get_series answered %d records", len(series))
	} else {
		utils.WarnLog("Degraded probe: get_series failed: %v", err)
	}

	return EmptySnapshot(), nil
}
