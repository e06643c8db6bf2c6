// Package config loads the service configuration.
//
// Every section struct declares its keys with `mapstructure` tags and its
// defaults with `default` tags. LoadConfig registers each key with Viper,
// reads an optional .env file through godotenv and maps environment
// variables onto nested keys, so LISTINGS_WAIT_TIME sets listings.wait_time.
//
// Sections:
//
//   - Server: listen address, API key, shutdown timeout
//   - Log: level and format
//   - Backpack: token, steamid, endpoints, retries
//   - Listings: batch size, debounce, intervals, retry limits
//   - Schema: item schema file
//   - Database: optional snapshot database (mysql or sqlite)
//   - Storage: optional snapshot archive bucket
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
package config
