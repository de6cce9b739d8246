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

// Package server is the HTTP layer: token-scoped addon-protocol routes,
// configuration endpoints, health and metrics.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	uuid "github.com/satori/go.uuid"

	"github.com/stremify/iptv-addon/pkg/cache"
	"github.com/stremify/iptv-addon/pkg/catalog"
	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/health"
	"github.com/stremify/iptv-addon/pkg/monitor"
	"github.com/stremify/iptv-addon/pkg/utils"
)

// Config represents the server state: the application configuration plus
// the two fingerprint-keyed caches.
type Config struct {
	*config.AppConfig

	// dataCache holds normalized provider snapshots; addonCache holds
	// fully built addon handles (engine + manifest). Both are keyed by
	// configuration fingerprint.
	dataCache  *cache.Cache[*catalog.Snapshot]
	addonCache *cache.Cache[*addonHandle]

	metrics    *monitor.Monitor
	checker    *health.Checker
	instanceID string
	startedAt  time.Time
}

// NewServer initializes the server state and its caches.
func NewServer(conf *config.AppConfig) (*Config, error) {
	return newServer(conf, prometheus.DefaultRegisterer)
}

func newServer(conf *config.AppConfig, registry prometheus.Registerer) (*Config, error) {
	if conf.HostConfig == nil {
		return nil, fmt.Errorf("server: missing host configuration")
	}

	c := &Config{
		AppConfig:  conf,
		dataCache:  cache.New[*catalog.Snapshot](conf.MaxCacheEntries, conf.CacheTTL),
		addonCache: cache.New[*addonHandle](conf.MaxCacheEntries, conf.CacheTTL),
		metrics:    monitor.New(registry),
		checker:    &health.Checker{},
		instanceID: strings.Split(uuid.NewV4().String(), "-")[0],
		startedAt:  time.Now(),
	}

	if conf.ConfigSecret == "" {
		utils.WarnLog("No config secret set: tokens are plain-encoded, /encrypt is disabled")
	}
	if !conf.CacheEnabled {
		utils.WarnLog("Caching disabled: every request rebuilds the catalog")
	}

	return c, nil
}

// Serve starts the HTTP listener and blocks.
func (c *Config) Serve() error {
	utils.InfoLog("[iptv-addon] Server %s starting...", c.instanceID)

	router := gin.Default()
	router.Use(cors.Default())

	c.routes(router)

	utils.InfoLog("[iptv-addon] Server is ready and listening on :%d", c.HostConfig.Port)
	return router.Run(fmt.Sprintf(":%d", c.HostConfig.Port))
}

func (c *Config) routes(router *gin.Engine) {
	router.GET("/", c.handleIndex)
	router.GET("/health", c.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/encrypt", c.handleEncrypt)
	router.POST("/configure", c.handleConfigure)

	token := router.Group("/:token", c.tokenGate())
	token.GET("/manifest.json", c.handleManifest)
	token.GET("/catalog/:type/:id", c.handleCatalog)
	token.GET("/catalog/:type/:id/*extra", c.handleCatalog)
	token.GET("/meta/:type/:id", c.handleMeta)
	token.GET("/stream/:type/:id", c.handleStream)
	token.GET("/playlist.m3u", c.handlePlaylist)
}

// baseURL is the externally visible address used in generated manifest
// URLs.
func (c *Config) baseURL() string {
	scheme := "http"
	if c.HTTPS {
		scheme = "https"
	}
	hostname := c.HostConfig.Hostname
	if hostname == "" {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, hostname, c.AdvertisedPort)
}
