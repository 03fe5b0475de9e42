package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.open-meteo.com/v1"
	defaultTimeout              = 5 * time.Second
	currentFields               = "temperature_2m,relative_humidity_2m,precipitation,weather_code"
	dailyFields                 = "temperature_2m_max,temperature_2m_min,precipitation_sum"
	responseBodyReadLimit int64 = 1024
)

// Client wraps the Open-Meteo forecast API. No API key is required.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the forecast API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// NewClient builds an Open-Meteo client with a five second timeout.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Current holds the instantaneous readings. Fields are nil when the upstream omits them.
type Current struct {
	Time               string   `json:"time"`
	Temperature2m      *float64 `json:"temperature_2m"`
	RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
	Precipitation      *float64 `json:"precipitation"`
	WeatherCode        *int     `json:"weather_code"`
}

// Daily holds parallel per-day series.
type Daily struct {
	Time             []string   `json:"time"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// Forecast is the subset of the /forecast response the service reads.
type Forecast struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Current   Current `json:"current"`
	Daily     Daily   `json:"daily"`
}

// CurrentWeather fetches current conditions plus today's daily aggregates.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*Forecast, error) {
	q := coordinates(lat, lon)
	q.Set("current", currentFields)
	q.Set("daily", dailyFields)
	q.Set("timezone", "auto")
	return c.forecast(ctx, q)
}

// DailyForecast fetches the daily series for the next days.
func (c *Client) DailyForecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error) {
	q := coordinates(lat, lon)
	q.Set("daily", dailyFields)
	q.Set("timezone", "auto")
	if days > 0 {
		q.Set("forecast_days", strconv.Itoa(days))
	}
	return c.forecast(ctx, q)
}

func (c *Client) forecast(ctx context.Context, q url.Values) (*Forecast, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "open-meteo client not configured")
	}

	endpoint := c.buildURL("forecast") + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build forecast request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute forecast request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "forecast request failed")
	}

	var forecast Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode forecast response")
	}
	return &forecast, nil
}

func coordinates(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	return q
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
