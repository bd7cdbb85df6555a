// Package config loads huff16d settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Defaults applied when a variable is unset.
const (
	DefaultAddr     = ":8080"
	DefaultMaxBytes = 64 << 20
)

// Config holds the daemon settings.
type Config struct {
	Addr     string
	MaxBytes int
	LogLevel logrus.Level
	GinMode  string
}

// Load reads HUFF16_ADDR, HUFF16_MAX_BYTES, HUFF16_LOG_LEVEL and
// HUFF16_GIN_MODE. Unset variables take their defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:     DefaultAddr,
		MaxBytes: DefaultMaxBytes,
		LogLevel: logrus.InfoLevel,
		GinMode:  gin.ReleaseMode,
	}

	if v, ok := os.LookupEnv("HUFF16_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv("HUFF16_MAX_BYTES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("HUFF16_MAX_BYTES: invalid value %q", v)
		}
		cfg.MaxBytes = n
	}
	if v, ok := os.LookupEnv("HUFF16_LOG_LEVEL"); ok && v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("HUFF16_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if v, ok := os.LookupEnv("HUFF16_GIN_MODE"); ok && v != "" {
		switch v {
		case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
			cfg.GinMode = v
		default:
			return Config{}, fmt.Errorf("HUFF16_GIN_MODE: invalid value %q", v)
		}
	}
	return cfg, nil
}
