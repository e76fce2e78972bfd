package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
	"github.com/couchcryptid/beacon-relay-service/internal/observability"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client implements domain.WeatherProvider using the OpenWeatherMap current
// weather API in imperial units.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentConditions fetches the current weather at a location.
func (c *Client) CurrentConditions(ctx context.Context, at domain.Coordinates) (domain.WeatherReport, error) {
	report, err := c.fetch(ctx, at)
	c.metrics.WeatherLookups.WithLabelValues(outcome(err)).Inc()
	return report, err
}

func (c *Client) fetch(ctx context.Context, at domain.Coordinates) (domain.WeatherReport, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(at.Lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"imperial"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.WeatherReport{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var wr response
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode response: %w: %w", domain.ErrMalformedResponse, err)
	}
	if len(wr.Weather) == 0 {
		return domain.WeatherReport{}, fmt.Errorf("openweather response has no conditions: %w", domain.ErrMalformedResponse)
	}

	c.logger.Debug("weather fetched", "lat", at.Lat, "lon", at.Lon, "description", wr.Weather[0].Description)
	return domain.WeatherReport{
		Description: wr.Weather[0].Description,
		TempF:       wr.Main.Temp,
		FeelsLikeF:  wr.Main.FeelsLike,
		Humidity:    wr.Main.Humidity,
		WindMPH:     wr.Wind.Speed,
	}, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var te interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
		return "timeout"
	}
	return "error"
}

// OpenWeatherMap API response types.

type response struct {
	Weather []condition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type condition struct {
	Description string `json:"description"`
}
