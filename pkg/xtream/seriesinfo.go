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
	"bytes"
	"strconv"

	"github.com/buger/jsonparser"

	"github.com/stremify/iptv-addon/pkg/utils"
)

// EpisodeRecord is one episode entry from a get_series_info response.
type EpisodeRecord struct {
	ID                 string
	EpisodeNum         int
	Title              string
	ContainerExtension string
	AirDate            string
	MovieImage         string
	DurationSecs       int
}

// SeriesInfo holds the episode listing of one series, keyed by season
// number as the panel reports it.
type SeriesInfo struct {
	Episodes map[string][]EpisodeRecord
}

// ParseSeriesInfo extracts the episode listing from a raw get_series_info
// body. The episodes field is usually an object keyed by season number,
// but some panels send an array of season arrays instead. Malformed
// seasons are skipped; the result is never nil.
func ParseSeriesInfo(data []byte) *SeriesInfo {
	info := &SeriesInfo{Episodes: map[string][]EpisodeRecord{}}

	episodes, dataType, _, err := jsonparser.Get(bytes.TrimSpace(data), "episodes")
	if err != nil {
		utils.DebugLog("Series info response carries no episodes field")
		return info
	}

	switch dataType {
	case jsonparser.Object:
		_ = jsonparser.ObjectEach(episodes, func(season, value []byte, dt jsonparser.ValueType, _ int) error {
			if dt != jsonparser.Array {
				return nil
			}
			if eps := parseEpisodeList(value); len(eps) > 0 {
				info.Episodes[string(season)] = eps
			}
			return nil
		})
	case jsonparser.Array:
		idx := 0
		_, _ = jsonparser.ArrayEach(episodes, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
			idx++
			if dt != jsonparser.Array {
				return
			}
			eps := parseEpisodeList(value)
			if len(eps) == 0 {
				return
			}
			season := strconv.Itoa(idx)
			if s := flexInt(value, "[0]", "season"); s > 0 {
				season = strconv.Itoa(s)
			}
			info.Episodes[season] = eps
		})
	}

	return info
}

func parseEpisodeList(data []byte) []EpisodeRecord {
	var eps []EpisodeRecord
	_, _ = jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
		if dt != jsonparser.Object {
			return
		}
		ep := EpisodeRecord{
			ID:                 flexString(value, "id"),
			EpisodeNum:         flexInt(value, "episode_num"),
			Title:              flexString(value, "title"),
			ContainerExtension: flexString(value, "container_extension"),
			AirDate:            flexString(value, "info", "air_date"),
			MovieImage:         flexString(value, "info", "movie_image"),
			DurationSecs:       flexInt(value, "info", "duration_secs"),
		}
		if ep.ID == "" && ep.EpisodeNum == 0 {
			return
		}
		eps = append(eps, ep)
	})
	return eps
}
