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

package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jamesnetherton/m3u"

	"github.com/stremify/iptv-addon/pkg/catalog"
	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/cryptoconfig"
	"github.com/stremify/iptv-addon/pkg/playlist"
	"github.com/stremify/iptv-addon/pkg/stremio"
	"github.com/stremify/iptv-addon/pkg/utils"
)

const (
	ctxConfigKey      = "providerConfig"
	ctxFingerprintKey = "fingerprint"
)

// tokenGate rejects malformed tokens before any decode attempt and stores
// the decoded configuration for the handlers.
func (c *Config) tokenGate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.Param("token")
		if !cryptoconfig.IsConfigToken(token) {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid configuration token"})
			return
		}

		cfg, ok := cryptoconfig.Decode(token, c.ConfigSecret)
		if !ok {
			utils.WarnLog("Token decode failed for fingerprint %s", cryptoconfig.Fingerprint(token))
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid configuration"})
			return
		}

		ctx.Set(ctxConfigKey, cfg)
		ctx.Set(ctxFingerprintKey, cryptoconfig.Fingerprint(token))
		ctx.Next()
	}
}

func (c *Config) handleFromContext(ctx *gin.Context) (*addonHandle, bool) {
	cfg := ctx.MustGet(ctxConfigKey).(*config.ProviderConfig)
	fingerprint := ctx.MustGet(ctxFingerprintKey).(string)

	handle, err := c.addonForConfig(cfg, fingerprint)
	if err != nil {
		utils.ErrorLog("Addon build failed for fingerprint %s: %v", fingerprint, err)
		c.metrics.RecordError()
		return nil, false
	}
	return handle, true
}

func (c *Config) handleIndex(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":        addonName,
		"version":     addonVersion,
		"description": "Self-hosted Stremio addon for Xtream/M3U IPTV services",
		"usage":       "POST /configure with your provider credentials, then install {base}/{token}/manifest.json",
		"endpoints":   []string{"/configure", "/encrypt", "/health", "/metrics", "/{token}/manifest.json"},
	})
}

func (c *Config) handleHealth(ctx *gin.Context) {
	reachable, lastCheck, lastError := c.checker.Status()

	status := gin.H{
		"status":   "ok",
		"instance": c.instanceID,
		"uptime":   time.Since(c.startedAt).Round(time.Second).String(),
		"caches": gin.H{
			"data":  c.dataCache.Stats(),
			"addon": c.addonCache.Stats(),
		},
		"provider": gin.H{
			"reachable": reachable,
			"lastCheck": lastCheck,
		},
	}
	if lastError != "" {
		status["provider"].(gin.H)["lastError"] = lastError
	}

	ctx.JSON(http.StatusOK, status)
}

// handleEncrypt builds an encrypted token. Without a server secret the
// endpoint refuses: plain tokens come from /configure instead.
func (c *Config) handleEncrypt(ctx *gin.Context) {
	if c.ConfigSecret == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "server has no config secret, encryption unavailable"})
		return
	}
	c.buildToken(ctx)
}

// handleConfigure builds a token in whatever mode the server runs in.
func (c *Config) handleConfigure(ctx *gin.Context) {
	c.buildToken(ctx)
}

func (c *Config) buildToken(ctx *gin.Context) {
	var cfg config.ProviderConfig
	if err := ctx.ShouldBindJSON(&cfg); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := cfg.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := cryptoconfig.Encode(&cfg, c.ConfigSecret)
	if err != nil {
		c.metrics.RecordError()
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":       token,
		"manifestUrl": c.baseURL() + "/" + url.PathEscape(token) + "/manifest.json",
	})
}

func (c *Config) handleManifest(ctx *gin.Context) {
	defer c.metrics.ObserveRequest("manifest", time.Now())

	handle, ok := c.handleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "addon unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, handle.manifest)
}

func (c *Config) handleCatalog(ctx *gin.Context) {
	defer c.metrics.ObserveRequest("catalog", time.Now())

	handle, ok := c.handleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, stremio.CatalogResponse{Metas: []stremio.Meta{}})
		return
	}

	kind, ok := kindFromType(ctx.Param("type"))
	if !ok {
		ctx.JSON(http.StatusOK, stremio.CatalogResponse{Metas: []stremio.Meta{}})
		return
	}

	genre, search, skip := catalogArgs(ctx)
	items := handle.engine.Query(kind, genre, search)

	if skip > len(items) {
		skip = len(items)
	}
	end := skip + catalogPageSize
	if end > len(items) {
		end = len(items)
	}

	metas := make([]stremio.Meta, 0, end-skip)
	for _, item := range items[skip:end] {
		metas = append(metas, handle.engine.BuildMeta(item))
	}

	utils.DebugLog("Catalog %s/%s: %d of %d items (skip=%d)", ctx.Param("type"), ctx.Param("id"), len(metas), len(items), skip)
	ctx.JSON(http.StatusOK, stremio.CatalogResponse{Metas: metas})
}

func (c *Config) handleMeta(ctx *gin.Context) {
	defer c.metrics.ObserveRequest("meta", time.Now())

	handle, ok := c.handleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, stremio.MetaResponse{})
		return
	}

	id := pathID(ctx.Param("id"))
	item, found := handle.engine.Snapshot().Find(id)
	if !found {
		ctx.JSON(http.StatusOK, stremio.MetaResponse{})
		return
	}

	meta := handle.engine.BuildMeta(item)
	if item.Kind == catalog.KindSeries {
		meta.Videos = handle.engine.ResolveEpisodes(ctx.Request.Context(), item)
	}

	ctx.JSON(http.StatusOK, stremio.MetaResponse{Meta: &meta})
}

func (c *Config) handleStream(ctx *gin.Context) {
	defer c.metrics.ObserveRequest("stream", time.Now())

	handle, ok := c.handleFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, stremio.StreamsResponse{Streams: []stremio.StreamItem{}})
		return
	}

	stream, found := handle.engine.ResolveStream(ctx.Request.Context(), pathID(ctx.Param("id")))
	if !found {
		ctx.JSON(http.StatusOK, stremio.StreamsResponse{Streams: []stremio.StreamItem{}})
		return
	}

	ctx.JSON(http.StatusOK, stremio.StreamsResponse{Streams: []stremio.StreamItem{*stream}})
}

// handlePlaylist exports the configuration's live channels as an M3U
// playlist.
func (c *Config) handlePlaylist(ctx *gin.Context) {
	defer c.metrics.ObserveRequest("playlist", time.Now())

	handle, ok := c.handleFromContext(ctx)
	if !ok {
		ctx.String(http.StatusInternalServerError, "playlist unavailable")
		return
	}

	p := &m3u.Playlist{Tracks: make([]m3u.Track, 0, len(handle.engine.Snapshot().Channels))}
	for _, item := range handle.engine.Snapshot().Channels {
		track := m3u.Track{Name: item.Name, Length: -1, URI: item.URL}
		if item.Poster != "" {
			track.Tags = append(track.Tags, m3u.Tag{Name: "tvg-logo", Value: item.Poster})
		}
		track.Tags = append(track.Tags, m3u.Tag{Name: "group-title", Value: item.Category})
		p.Tracks = append(p.Tracks, track)
	}

	ctx.Header("Content-Type", "audio/x-mpegurl")
	ctx.Header("Content-Disposition", `attachment; filename="playlist.m3u"`)
	ctx.Status(http.StatusOK)
	if err := playlist.MarshalInto(ctx.Writer, p); err != nil {
		utils.ErrorLog("Playlist export failed: %v", err)
	}
}

// pathID strips the .json suffix and undoes path escaping on an id
// segment. Episode ids arrive as series_5%3A2%3A3.json.
func pathID(raw string) string {
	id := strings.TrimSuffix(raw, ".json")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	return id
}

func kindFromType(contentType string) (catalog.Kind, bool) {
	switch contentType {
	case "tv":
		return catalog.KindTV, true
	case "movie":
		return catalog.KindMovie, true
	case "series":
		return catalog.KindSeries, true
	}
	return "", false
}

// catalogArgs merges extras from the query string and from the trailing
// path segment (the protocol sends /catalog/tv/iptv_live/genre=News.json).
func catalogArgs(ctx *gin.Context) (genre, search string, skip int) {
	genre = ctx.Query("genre")
	search = ctx.Query("search")
	skip, _ = strconv.Atoi(ctx.Query("skip"))
	if skip < 0 {
		skip = 0
	}

	extra := strings.TrimSuffix(strings.TrimPrefix(ctx.Param("extra"), "/"), ".json")
	if extra == "" {
		return genre, search, skip
	}
	if unescaped, err := url.PathUnescape(extra); err == nil {
		extra = unescaped
	}
	values, err := url.ParseQuery(extra)
	if err != nil {
		return genre, search, skip
	}
	if v := values.Get("genre"); v != "" {
		genre = v
	}
	if v := values.Get("search"); v != "" {
		search = v
	}
	if v := values.Get("skip"); v != "" {
		skip, _ = strconv.Atoi(v)
	}
	if skip < 0 {
		skip = 0
	}
	return genre, search, skip
}
