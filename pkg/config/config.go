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

package config

import (
	"errors"
	"net/url"
	"time"
)

// CredentialString holds a secret value. Its Stringer implementation
// redacts the value so credentials cannot leak through format verbs.
type CredentialString string

// String implements fmt.Stringer with redaction.
func (s CredentialString) String() string {
	if s == "" {
		return ""
	}
	return "********"
}

// Reveal returns the raw secret value. Use only when building upstream
// requests, never in log statements.
func (s CredentialString) Reveal() string {
	return string(s)
}

// PathEscape returns the secret escaped for use in a URL path segment.
func (s CredentialString) PathEscape() string {
	return url.PathEscape(string(s))
}

// HostConfiguration is the listening/advertised host of the addon.
type HostConfiguration struct {
	Hostname string
	Port     int
}

// AppConfig is the process-level server configuration, resolved once at
// startup from flags and environment.
type AppConfig struct {
	HostConfig     *HostConfiguration
	AdvertisedPort int
	HTTPS          bool

	// Cache knobs shared by the payload and snapshot caches.
	CacheTTL        time.Duration
	MaxCacheEntries int
	CacheEnabled    bool

	// ConfigSecret enables authenticated token encryption when non-empty.
	ConfigSecret CredentialString
}

// ProviderConfig is the client-supplied upstream configuration carried in
// the opaque token. Immutable once decoded. The JSON field names are part
// of the token format and must not change.
type ProviderConfig struct {
	XtreamURL      string `json:"xtreamUrl,omitempty"`
	XtreamUsername string `json:"xtreamUsername,omitempty"`
	XtreamPassword string `json:"xtreamPassword,omitempty"`
	M3UURL         string `json:"m3uUrl,omitempty"`
	EPGURL         string `json:"epgUrl,omitempty"`
}

// ErrNoProvider is returned when a configuration names neither an Xtream
// account nor an M3U playlist.
var ErrNoProvider = errors.New("config: provide either xtream credentials or an m3u url")

// HasXtream reports whether the full Xtream credential triple is present.
func (c *ProviderConfig) HasXtream() bool {
	return c.XtreamURL != "" && c.XtreamUsername != "" && c.XtreamPassword != ""
}

// Validate checks that the configuration names at least one usable source.
func (c *ProviderConfig) Validate() error {
	if c == nil {
		return ErrNoProvider
	}
	if !c.HasXtream() && c.M3UURL == "" {
		return ErrNoProvider
	}
	return nil
}
