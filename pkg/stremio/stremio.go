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

// Package stremio holds the addon-protocol wire types. The protocol is an
// external contract; field names and shapes follow it exactly.
package stremio

// ContentType is a Stremio content type.
type ContentType string

const (
	ContentTypeTV     ContentType = "tv"
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Manifest describes the addon to Stremio. Serialized manifests must stay
// under 8 KB; catalog genre option lists are capped for that reason.
type Manifest struct {
	ID            string         `json:"id"`
	Version       string         `json:"version"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Logo          string         `json:"logo,omitempty"`
	Resources     []string       `json:"resources"`
	Types         []ContentType  `json:"types"`
	Catalogs      []Catalog      `json:"catalogs"`
	IDPrefixes    []string       `json:"idPrefixes,omitempty"`
	BehaviorHints *BehaviorHints `json:"behaviorHints,omitempty"`
}

// Catalog is one catalog declaration inside the manifest.
type Catalog struct {
	Type  ContentType `json:"type"`
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Extra []Extra     `json:"extra,omitempty"`
}

// Extra declares a supported catalog query parameter.
type Extra struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

// BehaviorHints flags addon capabilities to the client.
type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// Meta is one catalog or detail entry.
type Meta struct {
	ID          string      `json:"id"`
	Type        ContentType `json:"type"`
	Name        string      `json:"name"`
	Genres      []string    `json:"genres,omitempty"`
	Poster      string      `json:"poster,omitempty"`
	Description string      `json:"description,omitempty"`
	Year        int         `json:"year,omitempty"`
	Videos      []Video     `json:"videos,omitempty"`
}

// Video is one episode entry of a series meta.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Overview  string `json:"overview,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Released  string `json:"released,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

// StreamItem is one playable stream option.
type StreamItem struct {
	URL           string               `json:"url"`
	Title         string               `json:"title,omitempty"`
	BehaviorHints *StreamBehaviorHints `json:"behaviorHints,omitempty"`
}

// StreamBehaviorHints flags stream playback constraints.
type StreamBehaviorHints struct {
	NotWebReady bool `json:"notWebReady,omitempty"`
}

// CatalogResponse wraps a catalog handler result.
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// MetaResponse wraps a meta handler result.
type MetaResponse struct {
	Meta *Meta `json:"meta"`
}

// StreamsResponse wraps a stream handler result.
type StreamsResponse struct {
	Streams []StreamItem `json:"streams"`
}
