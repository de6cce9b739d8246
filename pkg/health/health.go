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

// Package health wraps provider calls with bounded retry and tracks
// provider reachability.
package health

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/stremify/iptv-addon/pkg/utils"
	"github.com/stremify/iptv-addon/pkg/xtream"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = time.Second
)

// IsTransient reports whether an error is worth retrying. Timeouts,
// connection resets and upstream 5xx count; 4xx and malformed payloads do
// not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *xtream.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// http.Client wraps dial errors in url.Error without a typed cause on
	// some platforms.
	msg := err.Error()
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused")
}

// WithRetry runs op up to 3 times with a doubling backoff starting at 1s.
// Only transient failures are retried; the last error is returned.
func WithRetry(ctx context.Context, op func(context.Context) error) error {
	return retry(ctx, op, defaultMaxAttempts, defaultBackoff)
}

func retry(ctx context.Context, op func(context.Context) error, attempts int, backoff time.Duration) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		utils.WarnLog("Transient provider error (attempt %d/%d), retrying in %v: %v", attempt, attempts, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// Checker tracks whether the provider answered its last probe.
type Checker struct {
	mu        sync.Mutex
	reachable bool
	lastCheck time.Time
	lastError string
}

// Record notes the outcome of a provider probe.
func (c *Checker) Record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCheck = time.Now()
	c.reachable = err == nil
	if err != nil {
		c.lastError = err.Error()
	} else {
		c.lastError = ""
	}
}

// Status returns the last known reachability state.
func (c *Checker) Status() (reachable bool, lastCheck time.Time, lastError string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reachable, c.lastCheck, c.lastError
}
