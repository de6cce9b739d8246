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
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stremify/iptv-addon/pkg/stremio"
	"github.com/stremify/iptv-addon/pkg/utils"
	"github.com/stremify/iptv-addon/pkg/xtream"
)

// StreamSource is the slice of the provider client the engine needs at
// request time for lazy episode resolution. Nil for M3U-only
// configurations.
type StreamSource interface {
	SeriesInfo(ctx context.Context, seriesID string) (*xtream.SeriesInfo, error)
	EpisodeStreamURL(episodeID, containerExtension string) string
	EpisodeFallbackURL(seriesID string, season, episode int) string
}

// Engine owns one normalized snapshot and answers catalog queries against
// it. Provider failures degrade individual answers, never the engine.
type Engine struct {
	snapshot *Snapshot
	source   StreamSource
}

// NewEngine wraps a snapshot. source may be nil when the configuration has
// no Xtream panel behind it.
func NewEngine(snapshot *Snapshot, source StreamSource) *Engine {
	return &Engine{snapshot: snapshot, source: source}
}

// Snapshot returns the engine's normalized state.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot
}

// Query filters and orders items of one kind. An empty or "All…" category
// filter matches everything; search is a case-insensitive substring match
// on name or category. Ordering is (category, name), stable across calls
// on an unchanged snapshot so pagination offsets stay valid.
func (e *Engine) Query(kind Kind, categoryFilter, search string) []Item {
	source := e.snapshot.Items(kind)
	items := make([]Item, 0, len(source))

	filterAll := categoryFilter == "" || strings.HasPrefix(categoryFilter, "All")
	searchLower := strings.ToLower(search)

	for _, item := range source {
		if !filterAll && item.Category != categoryFilter {
			continue
		}
		if searchLower != "" &&
			!strings.Contains(strings.ToLower(item.Name), searchLower) &&
			!strings.Contains(strings.ToLower(item.Category), searchLower) {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items
}

// BuildMeta builds the presentation metadata for one item. Missing posters
// fall back to a generated placeholder image URL carrying the item name.
func (e *Engine) BuildMeta(item Item) stremio.Meta {
	meta := stremio.Meta{
		ID:     item.ID,
		Type:   stremio.ContentType(item.Kind),
		Name:   item.Name,
		Genres: []string{item.Category},
	}

	if item.Kind == KindTV {
		meta.Poster = item.Poster
		if meta.Poster == "" {
			meta.Poster = placeholderPoster("300x400/333/fff", item.Name)
		}
		meta.Description = fmt.Sprintf("📺 Live Channel: %s", item.Name)
		return meta
	}

	meta.Poster = item.Poster
	if meta.Poster == "" {
		meta.Poster = placeholderPoster("300x450/666/fff", item.Name)
	}
	meta.Description = item.Plot
	if meta.Description == "" {
		label := "Movie"
		if item.Kind == KindSeries {
			label = "TV Show"
		}
		meta.Description = fmt.Sprintf("%s: %s", label, item.Name)
	}
	meta.Year = item.Year

	return meta
}

// ResolveStream maps an item or episode id to a playable stream. Episode
// ids carry the form series_X:season:episode; the parent series must be in
// the snapshot, but a failed or incomplete provider lookup still yields a
// constructed best-effort URL. Unknown ids resolve to absent, never to an
// error.
func (e *Engine) ResolveStream(ctx context.Context, id string) (*stremio.StreamItem, bool) {
	if strings.Contains(id, ":") {
		return e.resolveEpisodeStream(ctx, id)
	}

	item, ok := e.snapshot.Find(id)
	if !ok {
		return nil, false
	}

	return &stremio.StreamItem{
		URL:           item.URL,
		Title:         item.Name,
		BehaviorHints: &stremio.StreamBehaviorHints{NotWebReady: true},
	}, true
}

func (e *Engine) resolveEpisodeStream(ctx context.Context, id string) (*stremio.StreamItem, bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 {
		return nil, false
	}
	seriesID := parts[0]
	season, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, false
	}
	episode, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, false
	}

	series, ok := e.snapshot.Find(seriesID)
	if !ok || e.source == nil {
		return nil, false
	}

	rawID := strings.TrimPrefix(seriesID, "series_")
	streamURL := e.episodeURL(ctx, rawID, season, episode)

	return &stremio.StreamItem{
		URL:           streamURL,
		Title:         fmt.Sprintf("%s - S%dE%d", series.Name, season, episode),
		BehaviorHints: &stremio.StreamBehaviorHints{NotWebReady: true},
	}, true
}

// episodeURL asks the panel for the episode's concrete stream id and falls
// back to the conventional constructed URL when the lookup fails or the
// episode is missing from the listing.
func (e *Engine) episodeURL(ctx context.Context, seriesID string, season, episode int) string {
	info, err := e.source.SeriesInfo(ctx, seriesID)
	if err == nil {
		for _, ep := range info.Episodes[strconv.Itoa(season)] {
			if ep.EpisodeNum == episode {
				return e.source.EpisodeStreamURL(ep.ID, ep.ContainerExtension)
			}
		}
	} else {
		utils.WarnLog("Series info lookup failed for series %s, using constructed URL: %v", seriesID, err)
	}
	return e.source.EpisodeFallbackURL(seriesID, season, episode)
}

// ResolveEpisodes fetches and flattens a series' episode listing, sorted
// by (season, episode). A failed fetch or an empty listing yields a single
// placeholder entry so the series never presents empty.
func (e *Engine) ResolveEpisodes(ctx context.Context, item Item) []stremio.Video {
	if e.source == nil {
		return placeholderEpisode(item, "Episode information not available")
	}

	rawID := strings.TrimPrefix(item.ID, "series_")
	info, err := e.source.SeriesInfo(ctx, rawID)
	if err != nil {
		utils.WarnLog("Episode listing failed for %s: %v", rawID, err)
		return placeholderEpisode(item, "Unable to load episode information")
	}

	videos := make([]stremio.Video, 0)
	for seasonKey, episodes := range info.Episodes {
		season, err := strconv.Atoi(seasonKey)
		if err != nil {
			continue
		}
		for _, ep := range episodes {
			title := ep.Title
			if title == "" {
				title = fmt.Sprintf("Episode %d", ep.EpisodeNum)
			}
			videos = append(videos, stremio.Video{
				ID:        fmt.Sprintf("%s:%d:%d", item.ID, season, ep.EpisodeNum),
				Title:     title,
				Season:    season,
				Episode:   ep.EpisodeNum,
				Overview:  fmt.Sprintf("Season %d Episode %d", season, ep.EpisodeNum),
				Thumbnail: ep.MovieImage,
				Released:  ep.AirDate,
				Duration:  ep.DurationSecs,
			})
		}
	}

	if len(videos) == 0 {
		return placeholderEpisode(item, "Episode information not available")
	}

	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].Season != videos[j].Season {
			return videos[i].Season < videos[j].Season
		}
		return videos[i].Episode < videos[j].Episode
	})

	return videos
}

func placeholderEpisode(item Item, overview string) []stremio.Video {
	return []stremio.Video{{
		ID:       item.ID + ":1:1",
		Title:    "Episode 1",
		Season:   1,
		Episode:  1,
		Overview: overview,
	}}
}

func placeholderPoster(spec, name string) string {
	return fmt.Sprintf("https://via.placeholder.com/%s?text=%s", spec, url.QueryEscape(name))
}
