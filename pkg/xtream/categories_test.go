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

package xtream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryMapArrayDialect(t *testing.T) {
	body := `[
		{"category_id": "5", "category_name": "Sports"},
		{"category_id": 7, "category_name": "News"},
		{"category_id": "9", "category_name": ""}
	]`

	got := ParseCategoryMap([]byte(body))

	assert.Equal(t, CategoryMap{"5": "Sports", "7": "News"}, got)
}

func TestParseCategoryMapObjectDialect(t *testing.T) {
	body := `{
		"5": {"category_name": "Sports"},
		"7": {"name": "News"},
		"9": {"parent_id": 0}
	}`

	got := ParseCategoryMap([]byte(body))

	assert.Equal(t, CategoryMap{"5": "Sports", "7": "News"}, got)
}

func TestParseCategoryMapGarbage(t *testing.T) {
	for _, body := range []string{"", "null", "<html>err</html>", "42", `["just","strings"]`} {
		got := ParseCategoryMap([]byte(body))
		assert.Empty(t, got, "body %q", body)
	}
}

func TestParseSeriesInfoObjectDialect(t *testing.T) {
	body := `{
		"info": {"name": "Some Show"},
		"episodes": {
			"1": [
				{"id": "101", "episode_num": 1, "title": "Pilot", "container_extension": "mkv",
				 "info": {"air_date": "2020-01-01", "movie_image": "http://img/1.jpg", "duration_secs": 1800}},
				{"id": "102", "episode_num": "2", "title": "Second"}
			],
			"2": [
				{"id": "201", "episode_num": 1}
			],
			"bad": "not-an-array"
		}
	}`

	info := ParseSeriesInfo([]byte(body))

	assert.Len(t, info.Episodes, 2)
	s1 := info.Episodes["1"]
	assert.Len(t, s1, 2)
	assert.Equal(t, "101", s1[0].ID)
	assert.Equal(t, 1, s1[0].EpisodeNum)
	assert.Equal(t, "Pilot", s1[0].Title)
	assert.Equal(t, "mkv", s1[0].ContainerExtension)
	assert.Equal(t, "2020-01-01", s1[0].AirDate)
	assert.Equal(t, "http://img/1.jpg", s1[0].MovieImage)
	assert.Equal(t, 1800, s1[0].DurationSecs)
	assert.Equal(t, 2, s1[1].EpisodeNum)
	assert.Len(t, info.Episodes["2"], 1)
}

func TestParseSeriesInfoArrayDialect(t *testing.T) {
	body := `{
		"episodes": [
			[{"id": "101", "episode_num": 1, "season": 1}],
			[{"id": "201", "episode_num": 1, "season": 2}]
		]
	}`

	info := ParseSeriesInfo([]byte(body))

	assert.Len(t, info.Episodes, 2)
	assert.Equal(t, "101", info.Episodes["1"][0].ID)
	assert.Equal(t, "201", info.Episodes["2"][0].ID)
}

func TestParseSeriesInfoMissingEpisodes(t *testing.T) {
	for _, body := range []string{"", "null", `{"info": {}}`, "<html>"} {
		info := ParseSeriesInfo([]byte(body))
		assert.NotNil(t, info)
		assert.Empty(t, info.Episodes, "body %q", body)
	}
}
