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
	"encoding/json"
	"strconv"
	"strings"

	"github.com/stremify/iptv-addon/pkg/utils"
)

// FlexInt is a flexible integer type that can unmarshal from JSON string,
// number, or null/empty values. Xtream panels disagree on which one they
// send for ids and episode numbers.
type FlexInt int

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fi *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*fi = 0
		return nil
	}

	// Try to unmarshal as integer
	var i int
	if err := json.Unmarshal(b, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}

	// Try to unmarshal as string containing an integer
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return utils.PrintErrorAndReturn(err)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		*fi = 0
		return nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		utils.DebugLog("Warning: cannot convert %q to integer, defaulting to 0", s)
		*fi = 0
		return nil
	}

	*fi = FlexInt(i)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fi FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(fi))
}

// Int returns the int value of the FlexInt
func (fi FlexInt) Int() int {
	return int(fi)
}

// FlexString is a string that also accepts JSON numbers and null. Category
// and stream ids arrive in either form depending on the panel.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fs *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*fs = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*fs = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return utils.PrintErrorAndReturn(err)
	}
	*fs = FlexString(n.String())
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fs FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(fs))
}

// String returns the plain string value.
func (fs FlexString) String() string {
	return string(fs)
}
