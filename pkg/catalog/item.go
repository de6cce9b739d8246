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

// Package catalog normalizes raw provider records into a uniform catalog
// model and answers query/meta/stream requests against it.
package catalog

import "sort"

// Kind is the content kind of a catalog item.
type Kind string

const (
	KindTV     Kind = "tv"
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Kind-specific default categories. Category resolution is total: an item
// whose category cannot be resolved from provider data ends up with one of
// these, never with an empty string.
const (
	DefaultLiveCategory   = "Live TV"
	DefaultMovieCategory  = "Movies"
	DefaultSeriesCategory = "Series"
)

// Item is one normalized catalog entry. The ID carries a type prefix
// (live_, vod_, series_) plus the provider's native identifier. URL embeds
// provider credentials and must never be logged.
type Item struct {
	ID       string
	Name     string
	Kind     Kind
	URL      string
	Category string
	Poster   string
	Plot     string
	Year     int
	Rating   string
	Genre    string
}

// Snapshot is the full normalized state for one configuration. It is
// built as a unit and replaced as a unit; readers never see a partial
// update.
type Snapshot struct {
	Channels []Item
	Movies   []Item
	Series   []Item

	// Categories is the per-kind category index: deduplicated, empties
	// dropped, sorted. A pure function of the item sets.
	Categories map[Kind][]string
}

// NewSnapshot builds a snapshot from normalized item sets, deriving the
// category indexes.
func NewSnapshot(channels, movies, series []Item) *Snapshot {
	return &Snapshot{
		Channels: channels,
		Movies:   movies,
		Series:   series,
		Categories: map[Kind][]string{
			KindTV:     BuildCategoryIndex(channels),
			KindMovie:  BuildCategoryIndex(movies),
			KindSeries: BuildCategoryIndex(series),
		},
	}
}

// EmptySnapshot is the degraded-mode result: no items, no categories.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil, nil)
}

// Items returns the item set for a kind.
func (s *Snapshot) Items(kind Kind) []Item {
	switch kind {
	case KindTV:
		return s.Channels
	case KindMovie:
		return s.Movies
	case KindSeries:
		return s.Series
	}
	return nil
}

// Find looks an item up by id across all kinds.
func (s *Snapshot) Find(id string) (Item, bool) {
	for _, set := range [][]Item{s.Channels, s.Movies, s.Series} {
		for _, item := range set {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Len returns the total item count.
func (s *Snapshot) Len() int {
	return len(s.Channels) + len(s.Movies) + len(s.Series)
}

// BuildCategoryIndex derives the sorted, deduplicated category list of an
// item set, dropping empty names.
func BuildCategoryIndex(items []Item) []string {
	seen := map[string]struct{}{}
	index := make([]string, 0)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		index = append(index, item.Category)
	}
	sort.Strings(index)
	return index
}
