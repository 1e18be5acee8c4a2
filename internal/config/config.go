// Package config loads application configuration from environment variables.
// cmd/server loads an optional .env file first; everything here reads the
// process environment only.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the core runtime settings.
type Config struct {
	Env          string // application environment (dev, test, prod)
	Port         string // HTTP port to listen on
	DBDriver     string // postgres, mysql or sqlite
	DBUser       string
	DBPass       string
	DBHost       string
	DBPort       string
	DBName       string // database name, or file path for sqlite
	JWTSecret    string // admin routes are only mounted when set
	AccessTTLMin int    // lifetime of minted admin tokens in minutes
}

// Load reads Config from the environment.  DB_NAME is required and a
// missing value terminates the process.
func Load() Config {
	return Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "8001"),
		DBDriver:     strings.ToLower(envStr("DB_DRIVER", "postgres")),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       envStr("DB_HOST", "localhost"),
		DBPort:       os.Getenv("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
	}
}

// AccessTTL is AccessTTLMin as a duration, never below one minute.
func (c Config) AccessTTL() time.Duration {
	if c.AccessTTLMin < 1 {
		return time.Minute
	}
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
