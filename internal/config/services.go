package config

import (
	"os"
	"time"
)

// WeatherConfig controls airport weather enrichment.
type WeatherConfig struct {
	Enabled   bool
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// LoadWeatherConfig reads the WEATHER_* variables.  An empty BaseURL means
// the public open-meteo endpoint.
func LoadWeatherConfig() WeatherConfig {
	return WeatherConfig{
		Enabled:   envBool("WEATHER_ENABLED", true),
		BaseURL:   os.Getenv("WEATHER_BASE_URL"),
		Timeout:   envDur("WEATHER_TIMEOUT", 3*time.Second),
		CacheTTL:  envDur("WEATHER_CACHE_TTL", 30*time.Minute),
		CacheSize: envInt("WEATHER_CACHE_SIZE", 1024),
	}
}

// RefDataConfig controls reloading of the reference snapshot.
type RefDataConfig struct {
	RefreshInterval time.Duration // 0 disables periodic refresh
	BroadcastURL    string        // AMQP URL; empty disables cross-instance refresh
	Exchange        string
	BroadcastOn     bool
}

// LoadRefDataConfig reads REFDATA_* and the AMQP URL (RABBITMQ_URL, falling
// back to AMQP_URL).
func LoadRefDataConfig() RefDataConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	c := RefDataConfig{
		RefreshInterval: envDur("REFDATA_REFRESH_INTERVAL", time.Hour),
		BroadcastURL:    url,
		Exchange:        envStr("REFDATA_EXCHANGE", "refdata.events"),
		BroadcastOn:     envBool("REFDATA_REFRESH_ENABLED", true),
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.BroadcastURL == "" {
		c.BroadcastOn = false
	}
	return c
}

// AuthConfig is the subset of Config needed to mint admin tokens.
type AuthConfig struct {
	JWTSecret string
	AccessTTL time.Duration
}

// LoadAuthConfig reads JWT_SECRET and ACCESS_TOKEN_TTL_MIN without requiring
// the database settings.
func LoadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
		AccessTTL: Config{AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60)}.AccessTTL(),
	}
}
