// Package weather fetches today's temperature range for a coordinate from the
// open-meteo forecast API and keeps recent answers in an expiring LRU.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/iliyamo/flight-explorer/internal/model"
)

const (
	// DefaultBaseURL is the open-meteo forecast endpoint.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	defaultTimeout  = 3 * time.Second
	defaultCacheTTL = 30 * time.Minute
	defaultCacheLen = 1024

	unitCelsius = "C"
)

// ErrNoForecast is returned when the API answers without daily values.
var ErrNoForecast = errors.New("weather: no forecast in response")

// Options configures a Client.  Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// Client implements resolver.WeatherProvider.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	cache      *expirable.LRU[string, model.Weather]
}

// New builds a Client.  The HTTP client has no timeout of its own; each call
// is bounded by Options.Timeout through its context.
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	if o.CacheSize <= 0 {
		o.CacheSize = defaultCacheLen
	}
	return &Client{
		baseURL: o.BaseURL,
		timeout: o.Timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		cache: expirable.NewLRU[string, model.Weather](o.CacheSize, nil, o.CacheTTL),
	}
}

type forecastResponse struct {
	Daily struct {
		Max []*float64 `json:"temperature_2m_max"`
		Min []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Forecast returns today's high and low in Celsius.  Answers are cached per
// coordinate rounded to four decimals.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	key := cacheKey(lat, lon)
	if w, ok := c.cache.Get(key); ok {
		return &w, nil
	}

	w, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, *w)
	return w, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*model.Weather, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	q.Set("forecast_days", "1")

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("weather: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: status %d: %s", resp.StatusCode, string(body))
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}
	if len(fr.Daily.Max) == 0 || len(fr.Daily.Min) == 0 || fr.Daily.Max[0] == nil || fr.Daily.Min[0] == nil {
		return nil, ErrNoForecast
	}
	return &model.Weather{High: *fr.Daily.Max[0], Low: *fr.Daily.Min[0], Unit: unitCelsius}, nil
}

func cacheKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}
