// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the booking
// service.
type Config struct {
	DataDir        string
	GeneralDB      string
	StoreCacheSize int
	LogLevel       slog.Level
}

// Load parses configuration values from the current process environment.
//
// Every field has a default, so an empty environment yields a working
// configuration; values that are present but unparsable are reported
// together in one error.
func Load() (Config, error) {
	cfg := Config{
		DataDir:        "data",
		GeneralDB:      "general.db",
		StoreCacheSize: 16,
		LogLevel:       slog.LevelInfo,
	}

	invalid := make([]string, 0, 2)

	if dir := strings.TrimSpace(os.Getenv("BOOKING_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}

	if name := strings.TrimSpace(os.Getenv("BOOKING_GENERAL_DB")); name != "" {
		cfg.GeneralDB = name
	}

	if sizeValue := strings.TrimSpace(os.Getenv("BOOKING_STORE_CACHE")); sizeValue != "" {
		size, err := strconv.Atoi(sizeValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "BOOKING_STORE_CACHE")
		} else {
			cfg.StoreCacheSize = size
		}
	}

	if levelValue := strings.TrimSpace(os.Getenv("BOOKING_LOG_LEVEL")); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "BOOKING_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
