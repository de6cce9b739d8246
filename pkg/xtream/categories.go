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
)

// CategoryMap maps a provider category id to its display name.
type CategoryMap map[string]string

// ParseCategoryMap builds a category lookup from a raw category response.
// Panels speak two dialects: an array of {category_id, category_name}
// records, or an object keyed by id with {category_name} (or {name})
// values. Anything unparseable yields an empty map, never an error; the
// normalizer has per-item fallbacks for missing categories.
func ParseCategoryMap(data []byte) CategoryMap {
	m := CategoryMap{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return m
	}

	switch data[0] {
	case '[':
		_, _ = jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
			if dataType != jsonparser.Object {
				return
			}
			id := flexString(value, "category_id")
			name, _ := jsonparser.GetString(value, "category_name")
			if id != "" && name != "" {
				m[id] = name
			}
		})
	case '{':
		_ = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
			if dataType != jsonparser.Object {
				return nil
			}
			name, err := jsonparser.GetString(value, "category_name")
			if err != nil || name == "" {
				name, _ = jsonparser.GetString(value, "name")
			}
			if name != "" {
				m[string(key)] = name
			}
			return nil
		})
	}

	return m
}

// flexString reads a field that may be a JSON string or number.
func flexString(data []byte, keys ...string) string {
	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		s, _ := jsonparser.ParseString(value)
		return s
	case jsonparser.Number:
		return string(value)
	default:
		return ""
	}
}

// flexInt reads a field that may be a JSON number or numeric string.
func flexInt(data []byte, keys ...string) int {
	value, dataType, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return 0
	}
	switch dataType {
	case jsonparser.Number, jsonparser.String:
		s := string(value)
		if dataType == jsonparser.String {
			s, _ = jsonparser.ParseString(value)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			// Tolerate "1.0" style numbers.
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return n
	default:
		return 0
	}
}
