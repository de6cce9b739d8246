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
	"fmt"
	"regexp"

	"github.com/jamesnetherton/m3u"

	"github.com/stremify/iptv-addon/pkg/playlist"
	"github.com/stremify/iptv-addon/pkg/xtream"
)

var yearExpr = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// resolveCategory implements the category resolution order: category-id
// lookup, inline category field, inline group title, kind default.
func resolveCategory(cats xtream.CategoryMap, categoryID, inline, group, kindDefault string) string {
	if name, ok := cats[categoryID]; ok && name != "" {
		return name
	}
	if inline != "" {
		return inline
	}
	if group != "" {
		return group
	}
	return kindDefault
}

// FromLiveStreams normalizes get_live_streams records into tv items.
func FromLiveStreams(streams []xtream.LiveStream, cats xtream.CategoryMap, client *xtream.Client) []Item {
	items := make([]Item, 0, len(streams))
	for _, s := range streams {
		items = append(items, Item{
			ID:       fmt.Sprintf("live_%d", s.StreamID.Int()),
			Name:     s.Name,
			Kind:     KindTV,
			URL:      client.LiveStreamURL(s.StreamID.Int()),
			Category: resolveCategory(cats, s.CategoryID.String(), s.Category, s.GroupTitle, DefaultLiveCategory),
			Poster:   s.StreamIcon,
		})
	}
	return items
}

// FromVodStreams normalizes get_vod_streams records into movie items.
func FromVodStreams(streams []xtream.VodStream, cats xtream.CategoryMap, client *xtream.Client) []Item {
	items := make([]Item, 0, len(streams))
	for _, s := range streams {
		plot := s.Plot
		if plot == "" {
			plot = s.Description
		}
		items = append(items, Item{
			ID:       fmt.Sprintf("vod_%d", s.StreamID.Int()),
			Name:     s.Name,
			Kind:     KindMovie,
			URL:      client.MovieStreamURL(s.StreamID.Int(), s.ContainerExtension),
			Category: resolveCategory(cats, s.CategoryID.String(), s.Category, s.GroupTitle, DefaultMovieCategory),
			Poster:   s.StreamIcon,
			Plot:     plot,
			Year:     yearFromDate(s.ReleaseDate),
			Rating:   s.Rating.String(),
		})
	}
	return items
}

// FromSeriesList normalizes get_series records into series items. The URL
// is the series base, not a playable stream; playable episode URLs are
// resolved lazily.
func FromSeriesList(series []xtream.Series, cats xtream.CategoryMap, client *xtream.Client) []Item {
	items := make([]Item, 0, len(series))
	for _, s := range series {
		plot := s.Plot
		if plot == "" {
			plot = s.Description
		}
		items = append(items, Item{
			ID:       fmt.Sprintf("series_%d", s.SeriesID.Int()),
			Name:     s.Name,
			Kind:     KindSeries,
			URL:      client.SeriesURL(s.SeriesID.Int()),
			Category: resolveCategory(cats, s.CategoryID.String(), s.Category, s.GroupTitle, DefaultSeriesCategory),
			Poster:   s.Cover,
			Plot:     plot,
			Year:     yearFromDate(s.ReleaseDate),
			Rating:   s.Rating.String(),
			Genre:    s.Genre,
		})
	}
	return items
}

// FromPlaylist normalizes M3U tracks into tv items with synthetic ids.
func FromPlaylist(p *m3u.Playlist) []Item {
	items := make([]Item, 0, len(p.Tracks))
	for _, track := range p.Tracks {
		items = append(items, Item{
			ID:       playlist.SyntheticID(),
			Name:     track.Name,
			Kind:     KindTV,
			URL:      track.URI,
			Category: playlist.GroupTitle(track),
			Poster:   playlist.TagValue(track, "tvg-logo"),
		})
	}
	return items
}

// yearFromDate pulls a four-digit year out of whatever date string the
// panel sent, or 0.
func yearFromDate(date string) int {
	match := yearExpr.FindString(date)
	if match == "" {
		return 0
	}
	year := 0
	for _, r := range match {
		year = year*10 + int(r-'0')
	}
	return year
}
