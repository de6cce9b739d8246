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

package main

import (
	"github.com/joho/godotenv"

	"github.com/stremify/iptv-addon/cmd"
)

func main() {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cmd.Execute()
}
