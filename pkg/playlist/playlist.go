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

// Package playlist parses and serializes M3U playlists. Parsing is
// deliberately forgiving: provider playlists are full of missing
// attributes, stray comments and truncated entries, and a bad entry must
// never take the rest of the playlist down with it.
package playlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/jamesnetherton/m3u"
	uuid "github.com/satori/go.uuid"

	"github.com/stremify/iptv-addon/pkg/utils"
)

// maxPlaylistBytes caps how much of a remote playlist is read.
const maxPlaylistBytes = 50 * 1024 * 1024

var tagExpr = regexp.MustCompile(`([a-zA-Z0-9-]+)="([^"]*)"`)

// Parse reads an M3U playlist. An #EXTINF line opens a pending entry; the
// next non-comment line closes it as the entry URL. A pending entry still
// open at end of input is dropped. Lines outside an open entry that are
// neither directives nor comments are ignored.
func Parse(r io.Reader) (*m3u.Playlist, error) {
	p := &m3u.Playlist{Tracks: make([]m3u.Track, 0)}

	var pending *m3u.Track

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			if pending != nil {
				utils.DebugLog("Dropping EXTINF entry with no URL: %s", pending.Name)
			}
			track := parseExtinf(line)
			pending = &track
		case strings.HasPrefix(line, "#"):
			// #EXTM3U header, #EXTGRP and friends, plain comments.
			continue
		default:
			if pending == nil {
				continue
			}
			pending.URI = line
			p.Tracks = append(p.Tracks, *pending)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}

	if pending != nil {
		utils.DebugLog("Dropping trailing EXTINF entry with no URL: %s", pending.Name)
	}

	return p, nil
}

// ParseBytes parses an in-memory playlist body.
func ParseBytes(data []byte) (*m3u.Playlist, error) {
	return Parse(bytes.NewReader(data))
}

// Fetch downloads and parses a remote playlist.
func Fetch(client *http.Client, url string) (*m3u.Playlist, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist fetch: HTTP status %d", resp.StatusCode)
	}

	return Parse(io.LimitReader(resp.Body, maxPlaylistBytes))
}

// parseExtinf splits one #EXTINF line into a track. The display name is
// everything after the last comma; attributes are key="value" pairs.
func parseExtinf(line string) m3u.Track {
	track := m3u.Track{Tags: make([]m3u.Tag, 0)}

	rest := strings.TrimPrefix(line, "#EXTINF:")

	lastComma := strings.LastIndex(rest, ",")
	attrs := rest
	if lastComma >= 0 {
		track.Name = strings.TrimSpace(rest[lastComma+1:])
		attrs = rest[:lastComma]
	}

	if fields := strings.FieldsFunc(attrs, func(r rune) bool { return r == ' ' || r == ',' }); len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			track.Length = n
		}
	}

	for _, match := range tagExpr.FindAllStringSubmatch(attrs, -1) {
		track.Tags = append(track.Tags, m3u.Tag{Name: match[1], Value: match[2]})
	}

	return track
}

// TagValue returns the value of a named attribute, or "".
func TagValue(track m3u.Track, name string) string {
	for _, tag := range track.Tags {
		if tag.Name == name {
			return tag.Value
		}
	}
	return ""
}

// GroupTitle returns a track's group-title attribute, defaulting to
// "Unknown" for tracks without one.
func GroupTitle(track m3u.Track) string {
	if v := TagValue(track, "group-title"); v != "" {
		return v
	}
	return "Unknown"
}

// SyntheticID mints an id for a playlist entry that carries none of its
// own. Playlist entries have no stable upstream id, so every parse run
// assigns fresh ones.
func SyntheticID() string {
	return "m3u_" + uuid.NewV4().String()
}

// MarshalInto writes a playlist in #EXTINF form.
func MarshalInto(w io.Writer, p *m3u.Playlist) error {
	buf := bufio.NewWriter(w)
	buf.WriteString("#EXTM3U\n") // nolint: errcheck

	for _, track := range p.Tracks {
		var line bytes.Buffer
		line.WriteString("#EXTINF:")                      // nolint: errcheck
		line.WriteString(fmt.Sprintf("%d ", track.Length)) // nolint: errcheck
		for i := range track.Tags {
			if i == len(track.Tags)-1 {
				line.WriteString(fmt.Sprintf("%s=%q", track.Tags[i].Name, track.Tags[i].Value)) // nolint: errcheck
				continue
			}
			line.WriteString(fmt.Sprintf("%s=%q ", track.Tags[i].Name, track.Tags[i].Value)) // nolint: errcheck
		}
		buf.WriteString(fmt.Sprintf("%s, %s\n%s\n", line.String(), track.Name, track.URI)) // nolint: errcheck
	}

	return buf.Flush()
}
