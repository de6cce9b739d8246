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

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stremify/iptv-addon/pkg/config"
	"github.com/stremify/iptv-addon/pkg/server"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iptv-addon",
	Short: "Self-hosted Stremio addon for Xtream/M3U IPTV services",
	Long: `Iptv-Addon aggregates live TV, VOD and series listings from an
Xtream-Codes-style IPTV provider (with an M3U playlist fallback) and serves
them through the Stremio addon protocol.

It supports:
- Xtream Codes API catalogs with M3U fallback
- Per-configuration TTL/LRU caching to shield the upstream provider
- Encrypted configuration tokens (AES-256-GCM) when a secret is set`,

	Run: func(cmd *cobra.Command, args []string) {
		log.Printf("[iptv-addon] Server is starting...")

		conf := &config.AppConfig{
			HostConfig: &config.HostConfiguration{
				Hostname: viper.GetString("hostname"),
				Port:     viper.GetInt("port"),
			},
			AdvertisedPort:  viper.GetInt("advertised-port"),
			HTTPS:           viper.GetBool("https"),
			CacheTTL:        time.Duration(viper.GetInt("cache-ttl-minutes")) * time.Minute,
			MaxCacheEntries: viper.GetInt("max-cache-entries"),
			CacheEnabled:    viper.GetBool("cache-enabled"),
			ConfigSecret:    config.CredentialString(viper.GetString("config-secret")),
		}

		// Use port if advertised port is not specified
		if conf.AdvertisedPort == 0 {
			conf.AdvertisedPort = conf.HostConfig.Port
		}

		srv, err := server.NewServer(conf)
		if err != nil {
			log.Fatal(err)
		}

		if err := srv.Serve(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.iptv-addon.yaml)")

	// Server flags
	rootCmd.Flags().Int("port", 6386, "Listening port")
	rootCmd.Flags().Int("advertised-port", 0, "Port to use in generated URLs (for reverse proxy)")
	rootCmd.Flags().String("hostname", "", "Hostname to use in generated URLs")
	rootCmd.Flags().BoolP("https", "", false, "Use HTTPS for generated URLs")

	// Cache flags
	rootCmd.Flags().Int("cache-ttl-minutes", 30, "Provider data cache TTL in minutes")
	rootCmd.Flags().Int("max-cache-entries", 100, "Maximum entries per cache")
	rootCmd.Flags().Bool("cache-enabled", true, "Enable provider/interface caching")

	// Token encryption flag
	rootCmd.Flags().String("config-secret", "", "Secret for configuration token encryption (plain tokens when empty)")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".iptv-addon")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
