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

// Package xtream is a client for Xtream-Codes-style IPTV panels: the
// player_api.php action endpoints and the get.php playlist endpoint.
package xtream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/utils"
)

// API endpoint constants
const (
	actionLiveCategories   = "get_live_categories"
	actionLiveStreams      = "get_live_streams"
	actionVodCategories    = "get_vod_categories"
	actionVodStreams       = "get_vod_streams"
	actionSeriesCategories = "get_series_categories"
	actionSeries           = "get_series"
	actionSeriesInfo       = "get_series_info"
)

// Per-call timeouts. Probes are short to fail over quickly; bulk content
// lists get more room.
const (
	probeTimeout      = 5 * time.Second
	bulkTimeout       = 15 * time.Second
	categoryTimeout   = 10 * time.Second
	seriesInfoTimeout = 10 * time.Second
	playlistTimeout   = 15 * time.Second
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 20 * 1024 * 1024

// StatusError is returned when the panel answers with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream HTTP status %d", e.Code)
}

// Client talks to one Xtream panel with one set of credentials.
type Client struct {
	BaseURL   string
	Username  config.CredentialString
	Password  config.CredentialString
	UserAgent string

	httpClient *http.Client
}

// NewClient validates the base URL and returns a panel client.
func NewClient(cfg *config.ProviderConfig) (*Client, error) {
	base := strings.TrimRight(cfg.XtreamURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, utils.PrintErrorAndReturn(fmt.Errorf("invalid base URL: %w", err))
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			// Many panels run on self-signed or expired certificates.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &Client{
		BaseURL:    base,
		Username:   config.CredentialString(cfg.XtreamUsername),
		Password:   config.CredentialString(cfg.XtreamPassword),
		UserAgent:  "Iptv-Addon",
		httpClient: httpClient,
	}, nil
}

// action issues one player_api.php call under its own timeout and returns
// the raw body. Timeouts come from the action class, not a global client
// deadline, so a slow bulk list cannot starve a probe.
func (c *Client) action(ctx context.Context, action string, timeout time.Duration, extra url.Values) ([]byte, error) {
	u, err := url.Parse(c.BaseURL + "/player_api.php")
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}

	params := url.Values{}
	params.Set("username", c.Username.Reveal())
	params.Set("password", c.Password.Reveal())
	params.Set("action", action)
	for k, vs := range extra {
		for _, v := range vs {
			if v != "" {
				params.Add(k, v)
			}
		}
	}
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	utils.DebugLog("Xtream action=%s timeout=%v", action, timeout)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Probe checks panel reachability with a short deadline.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.action(ctx, actionLiveCategories, probeTimeout, nil)
	return err
}

// LiveStream is one get_live_streams record.
type LiveStream struct {
	Name       string     `json:"name"`
	StreamID   FlexInt    `json:"stream_id"`
	StreamIcon string     `json:"stream_icon"`
	CategoryID FlexString `json:"category_id"`
	Category   string     `json:"category"`
	GroupTitle string     `json:"group_title"`
}

// VodStream is one get_vod_streams record.
type VodStream struct {
	Name               string     `json:"name"`
	StreamID           FlexInt    `json:"stream_id"`
	StreamIcon         string     `json:"stream_icon"`
	CategoryID         FlexString `json:"category_id"`
	Category           string     `json:"category"`
	GroupTitle         string     `json:"group_title"`
	ContainerExtension string     `json:"container_extension"`
	Plot               string     `json:"plot"`
	Description        string     `json:"description"`
	ReleaseDate        string     `json:"releasedate"`
	Rating             FlexString `json:"rating"`
}

// Series is one get_series record.
type Series struct {
	Name        string     `json:"name"`
	SeriesID    FlexInt    `json:"series_id"`
	Cover       string     `json:"cover"`
	CategoryID  FlexString `json:"category_id"`
	Category    string     `json:"category"`
	GroupTitle  string     `json:"group_title"`
	Plot        string     `json:"plot"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"releaseDate"`
	Rating      FlexString `json:"rating"`
	Genre       string     `json:"genre"`
}

// LiveStreams fetches all live channel records.
func (c *Client) LiveStreams(ctx context.Context) ([]LiveStream, error) {
	body, err := c.action(ctx, actionLiveStreams, bulkTimeout, nil)
	if err != nil {
		return nil, err
	}
	var streams []LiveStream
	if err := decodeList(body, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// VodStreams fetches all VOD records.
func (c *Client) VodStreams(ctx context.Context) ([]VodStream, error) {
	body, err := c.action(ctx, actionVodStreams, bulkTimeout, nil)
	if err != nil {
		return nil, err
	}
	var streams []VodStream
	if err := decodeList(body, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// SeriesList fetches all series records.
func (c *Client) SeriesList(ctx context.Context) ([]Series, error) {
	body, err := c.action(ctx, actionSeries, bulkTimeout, nil)
	if err != nil {
		return nil, err
	}
	var series []Series
	if err := decodeList(body, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// LiveCategories fetches the live category map.
func (c *Client) LiveCategories(ctx context.Context) (CategoryMap, error) {
	return c.categories(ctx, actionLiveCategories)
}

// VodCategories fetches the VOD category map.
func (c *Client) VodCategories(ctx context.Context) (CategoryMap, error) {
	return c.categories(ctx, actionVodCategories)
}

// SeriesCategories fetches the series category map.
func (c *Client) SeriesCategories(ctx context.Context) (CategoryMap, error) {
	return c.categories(ctx, actionSeriesCategories)
}

func (c *Client) categories(ctx context.Context, action string) (CategoryMap, error) {
	body, err := c.action(ctx, action, categoryTimeout, nil)
	if err != nil {
		return nil, err
	}
	return ParseCategoryMap(body), nil
}

// SeriesInfo fetches season/episode details for one series.
func (c *Client) SeriesInfo(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	body, err := c.action(ctx, actionSeriesInfo, seriesInfoTimeout, url.Values{"series_id": {seriesID}})
	if err != nil {
		return nil, err
	}
	return ParseSeriesInfo(body), nil
}

// FetchPlaylist downloads the get.php M3U playlist.
func (c *Client) FetchPlaylist(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(c.BaseURL + "/get.php")
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	params := url.Values{}
	params.Set("username", c.Username.Reveal())
	params.Set("password", c.Password.Reveal())
	params.Set("type", "m3u_plus")
	params.Set("output", "ts")
	u.RawQuery = params.Encode()

	ctx, cancel := context.WithTimeout(ctx, playlistTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

// LiveStreamURL builds the playable HLS URL for a live stream id. The
// result embeds credentials and must never be logged.
func (c *Client) LiveStreamURL(streamID int) string {
	return fmt.Sprintf("%s/live/%s/%s/%d.m3u8", c.BaseURL, c.Username.PathEscape(), c.Password.PathEscape(), streamID)
}

// MovieStreamURL builds the playable URL for a VOD stream id.
func (c *Client) MovieStreamURL(streamID int, containerExtension string) string {
	if containerExtension == "" {
		containerExtension = "mp4"
	}
	return fmt.Sprintf("%s/movie/%s/%s/%d.%s", c.BaseURL, c.Username.PathEscape(), c.Password.PathEscape(), streamID, containerExtension)
}

// SeriesURL builds the series base URL for a series id.
func (c *Client) SeriesURL(seriesID int) string {
	return fmt.Sprintf("%s/series/%s/%s/%d", c.BaseURL, c.Username.PathEscape(), c.Password.PathEscape(), seriesID)
}

// EpisodeStreamURL builds the playable URL for a concrete episode stream id
// reported by get_series_info.
func (c *Client) EpisodeStreamURL(episodeID, containerExtension string) string {
	if containerExtension == "" {
		containerExtension = "mp4"
	}
	return fmt.Sprintf("%s/series/%s/%s/%s.%s", c.BaseURL, c.Username.PathEscape(), c.Password.PathEscape(), episodeID, containerExtension)
}

// EpisodeFallbackURL builds a best-effort episode URL when the panel could
// not be asked for the concrete episode stream id.
func (c *Client) EpisodeFallbackURL(seriesID string, season, episode int) string {
	return fmt.Sprintf("%s/series/%s/%s/%s/%d/%d.mp4", c.BaseURL, c.Username.PathEscape(), c.Password.PathEscape(), seriesID, season, episode)
}

// decodeList unmarshals an upstream list response. Panels answer "null",
// an HTML error page, or an object where an array is expected; all of
// those are malformed-response errors for the caller to degrade on.
func decodeList(body []byte, out interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "<") {
		return fmt.Errorf("non-JSON response from panel")
	}
	if err := json.Unmarshal([]byte(trimmed), out); err != nil {
		return fmt.Errorf("decode panel list: %w", err)
	}
	return nil
}
