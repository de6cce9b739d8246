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

package playlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicPlaylist(t *testing.T) {
	body := `#EXTM3U
#EXTINF:-1 tvg-id="cnn.us" tvg-logo="http://logo/cnn.png" group-title="News", CNN
http://host/stream/1.ts
#EXTINF:-1, Bare Channel
http://host/stream/2.ts
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Tracks, 2)

	assert.Equal(t, "CNN", p.Tracks[0].Name)
	assert.Equal(t, "http://host/stream/1.ts", p.Tracks[0].URI)
	assert.Equal(t, "News", GroupTitle(p.Tracks[0]))
	assert.Equal(t, "http://logo/cnn.png", TagValue(p.Tracks[0], "tvg-logo"))
	assert.Equal(t, -1, p.Tracks[0].Length)

	assert.Equal(t, "Bare Channel", p.Tracks[1].Name)
	assert.Equal(t, "Unknown", GroupTitle(p.Tracks[1]))
}

func TestParseNameIsAfterLastComma(t *testing.T) {
	body := `#EXTINF:-1 group-title="Movies, Classics", Gone, Girl
http://host/movie.mp4
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "Girl", p.Tracks[0].Name)
	assert.Equal(t, "Movies, Classics", GroupTitle(p.Tracks[0]))
}

func TestParseDropsUnclosedEntry(t *testing.T) {
	body := `#EXTM3U
#EXTINF:-1, First
http://host/1.ts
#EXTINF:-1, Trailing Without URL
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "First", p.Tracks[0].Name)
}

func TestParseConsecutiveExtinfKeepsLast(t *testing.T) {
	body := `#EXTINF:-1, Abandoned
#EXTINF:-1, Kept
http://host/kept.ts
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "Kept", p.Tracks[0].Name)
}

func TestParseIgnoresCommentsAndStrayLines(t *testing.T) {
	body := `#EXTM3U
# a comment
http://host/orphan-url.ts
#EXTGRP:whatever
#EXTINF:120 tvg-logo="", Timed
http://host/timed.ts
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)
	require.Len(t, p.Tracks, 1)
	assert.Equal(t, "Timed", p.Tracks[0].Name)
	assert.Equal(t, 120, p.Tracks[0].Length)
}

func TestParseEmptyInput(t *testing.T) {
	p, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, p.Tracks)
}

func TestMarshalRoundTrip(t *testing.T) {
	body := `#EXTINF:-1 tvg-logo="http://logo/x.png" group-title="News", CNN
http://host/1.ts
`
	p, err := ParseBytes([]byte(body))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, MarshalInto(&out, p))

	again, err := ParseBytes(out.Bytes())
	require.NoError(t, err)
	require.Len(t, again.Tracks, 1)
	assert.Equal(t, p.Tracks[0].Name, again.Tracks[0].Name)
	assert.Equal(t, p.Tracks[0].URI, again.Tracks[0].URI)
	assert.Equal(t, TagValue(p.Tracks[0], "group-title"), TagValue(again.Tracks[0], "group-title"))
}

func TestSyntheticIDFormat(t *testing.T) {
	id := SyntheticID()
	assert.True(t, strings.HasPrefix(id, "m3u_"))
	assert.NotEqual(t, id, SyntheticID())
}
