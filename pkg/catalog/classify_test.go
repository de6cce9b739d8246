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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSeriesEpisode(t *testing.T) {
	tests := []struct {
		name     string
		category string
		itemName string
		want     bool
	}{
		{"movie keyword wins over episode pattern", "Anime Movies", "Naruto S01E01", false},
		{"film keyword", "Classic Film", "Some Title Episode 3", false},
		{"arabic movie keyword", "افلام اجنبي", "مسلسل الحلقة 5", false},
		{"cinema keyword", "Cinema Premieres", "Show 1x01", false},
		{"series keyword in category", "Drama Series", "Some Show", true},
		{"talk show keyword", "Talk Shows", "Late Night", true},
		{"arabic series keyword", "مسلسلات رمضان", "عنوان", true},
		{"s01e01 pattern", "General", "Breaking Point S02E07", true},
		{"1x01 pattern", "General", "The Show 3x12", true},
		{"episode pattern", "General", "Adventure Episode 12", true},
		{"ep pattern", "General", "Adventure Ep 3", true},
		{"season episode pattern", "General", "Show Season 2 Episode 4", true},
		{"arabic episode pattern", "General", "مسلسل الحلقة 12", true},
		{"plain movie name", "General", "The Long Goodbye", false},
		{"empty inputs", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSeriesEpisode(tt.category, tt.itemName))
		})
	}
}

func TestInferCategoriesMatchesVocabulary(t *testing.T) {
	items := []Item{
		{Name: "Sky Sports Main Event", Category: DefaultLiveCategory},
		{Name: "Euro News 24", Category: DefaultLiveCategory},
		{Name: "Kids Cartoons HD", Category: ""},
		{Name: "Random Channel", Category: DefaultLiveCategory},
		{Name: "Sports Extra", Category: "Already Set"},
	}

	InferCategories(items, DefaultLiveCategory)

	assert.Equal(t, "Sports", items[0].Category)
	assert.Equal(t, "News", items[1].Category)
	assert.Equal(t, "Kids", items[2].Category)
	assert.Equal(t, DefaultLiveCategory, items[3].Category)
	assert.Equal(t, "Already Set", items[4].Category, "non-default categories are left alone")
}

func TestBuildCategoryIndex(t *testing.T) {
	items := []Item{
		{Category: "News"},
		{Category: "Sports"},
		{Category: "News"},
		{Category: ""},
		{Category: "Kids"},
	}

	assert.Equal(t, []string{"Kids", "News", "Sports"}, BuildCategoryIndex(items))
	assert.Empty(t, BuildCategoryIndex(nil))
}
