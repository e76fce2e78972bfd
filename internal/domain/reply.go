package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Fixed replies sent when a message cannot be answered normally.
const (
	ReplyEmptyMessage         = "Empty message received. Please send a question or weather request."
	ReplyWeatherUnavailable   = "Weather data unavailable. Check coordinates."
	ReplyWeatherTimeout       = "Weather service timeout. Try again."
	ReplyWeatherMalformed     = "Error reading weather data."
	ReplyAssistantUnavailable = "AI service unavailable. Try again later."
	ReplyAssistantTimeout     = "AI service timeout. Try simpler question."
	ReplyAssistantMalformed   = "Error processing AI response."
)

// ErrMalformedResponse is wrapped by providers when an upstream answered but
// its payload could not be used.
var ErrMalformedResponse = errors.New("malformed upstream response")

// WeatherReport holds current conditions in imperial units.
type WeatherReport struct {
	Description string
	TempF       float64
	FeelsLikeF  float64
	Humidity    int
	WindMPH     float64
}

// WeatherProvider looks up current conditions for a location.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, at Coordinates) (WeatherReport, error)
}

// Assistant answers free-form questions, typically via an LLM.
type Assistant interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Responders are the collaborators used to answer messages. A nil provider
// makes its route answer with the matching "unavailable" reply.
type Responders struct {
	Weather         WeatherProvider
	Assistant       Assistant
	DefaultLocation Coordinates
}

// Reply is the uncompressed answer to an inbound message. Verbatim replies
// are sent as written, without abbreviation or truncation.
type Reply struct {
	Route    Route
	Text     string
	Verbatim bool
}

// GenerateReply routes body to the weather provider or the assistant and
// returns the answer. Upstream failures become fixed fallback replies.
func GenerateReply(ctx context.Context, body string, r Responders, logger *slog.Logger) Reply {
	route := RouteFor(body)
	switch route {
	case RouteEmpty:
		return Reply{Route: route, Text: ReplyEmptyMessage, Verbatim: true}
	case RouteWeather:
		return Reply{Route: route, Text: weatherReply(ctx, body, r, logger)}
	default:
		return Reply{Route: route, Text: assistantReply(ctx, body, r.Assistant, logger)}
	}
}

func weatherReply(ctx context.Context, body string, r Responders, logger *slog.Logger) string {
	if r.Weather == nil {
		return ReplyWeatherUnavailable
	}

	at, ok := ExtractCoordinates(body)
	if !ok {
		at = r.DefaultLocation
		logger.Debug("no coordinates in weather request, using default", "lat", at.Lat, "lon", at.Lon)
	}

	report, err := r.Weather.CurrentConditions(ctx, at)
	if err != nil {
		logger.Warn("weather lookup failed", "lat", at.Lat, "lon", at.Lon, "error", err)
		switch {
		case isTimeout(err):
			return ReplyWeatherTimeout
		case errors.Is(err, ErrMalformedResponse):
			return ReplyWeatherMalformed
		}
		return ReplyWeatherUnavailable
	}
	return FormatWeather(report)
}

func assistantReply(ctx context.Context, question string, a Assistant, logger *slog.Logger) string {
	if a == nil {
		return ReplyAssistantUnavailable
	}

	answer, err := a.Answer(ctx, question)
	if err != nil {
		logger.Warn("assistant request failed", "error", err)
		switch {
		case isTimeout(err):
			return ReplyAssistantTimeout
		case errors.Is(err, ErrMalformedResponse):
			return ReplyAssistantMalformed
		}
		return ReplyAssistantUnavailable
	}
	return answer
}

// FormatWeather renders a report as the plain-language line that is later
// compressed, e.g. "Weather: clear sky. Temp: 64°F (feels 63°F). Humidity: 70%. Wind: 9mph".
func FormatWeather(w WeatherReport) string {
	return fmt.Sprintf("Weather: %s. Temp: %d°F (feels %d°F). Humidity: %d%%. Wind: %dmph",
		w.Description,
		int(math.Round(w.TempF)),
		int(math.Round(w.FeelsLikeF)),
		w.Humidity,
		int(math.Round(w.WindMPH)),
	)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
