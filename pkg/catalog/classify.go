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
	"regexp"
	"strings"
)

// Movie-indicating category keywords always win over series indicators,
// so feature-length anime and cinema categories never classify as series.
var movieKeywords = []string{"movie", "film", "افلام", "cinema"}

var strongSeriesKeywords = []string{"talk show", "مسلسل", "برنامج", "series"}

// Episode numbering patterns, English and Arabic.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`الحلقة\s*\d+`),
	regexp.MustCompile(`حلقة\s*\d+`),
	regexp.MustCompile(`الجزء\s*\d+`),
	regexp.MustCompile(`جزء\s*\d+`),
	regexp.MustCompile(`s\d+e\d+`),
	regexp.MustCompile(`season\s*\d+.*episode\s*\d+`),
	regexp.MustCompile(`\d+x\d+`),
	regexp.MustCompile(`ep\s*\d+`),
	regexp.MustCompile(`episode\s*\d+`),
}

// IsSeriesEpisode classifies an item as a series episode from its category
// and name. The rules run top to bottom: movie-keyword category excludes,
// strong series keyword in the category includes, episode numbering in the
// name includes, anything else is not a series episode.
func IsSeriesEpisode(category, name string) bool {
	cat := strings.ToLower(category)
	n := strings.ToLower(name)

	for _, kw := range movieKeywords {
		if strings.Contains(cat, kw) {
			return false
		}
	}

	for _, kw := range strongSeriesKeywords {
		if strings.Contains(cat, kw) {
			return true
		}
	}

	for _, pattern := range episodePatterns {
		if pattern.MatchString(n) {
			return true
		}
	}

	return false
}

// categoryVocabulary is the fixed set scanned by InferCategories.
var categoryVocabulary = []string{"Sports", "News", "Movies", "Entertainment", "Kids", "Music", "Documentary"}

// InferCategories assigns categories from item names. It only runs when
// the provider returned no categories at all (the caller gates on that);
// items already carrying a non-default category are left alone. First
// vocabulary match wins.
func InferCategories(items []Item, defaultCategory string) {
	for i := range items {
		if items[i].Category != "" && items[i].Category != defaultCategory {
			continue
		}
		name := strings.ToLower(items[i].Name)
		for _, cat := range categoryVocabulary {
			if strings.Contains(name, strings.ToLower(cat)) {
				items[i].Category = cat
				break
			}
		}
	}
}
