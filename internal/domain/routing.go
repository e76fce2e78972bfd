package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Route names the handler that answers an inbound message.
type Route string

const (
	RouteEmpty     Route = "empty"
	RouteWeather   Route = "weather"
	RouteAssistant Route = "assistant"
)

// weatherKeywords are matched as substrings of the lower-cased message, so
// "temp" also catches "temps" and "temperature".
var weatherKeywords = []string{"weather", "forecast", "temp", "temperature", "rain", "snow", "wind"}

// coordinateRe matches a "lat, lon" pair such as "37.7749, -122.4194".
var coordinateRe = regexp.MustCompile(`(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)`)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsWeatherRequest reports whether a message asks for weather: it mentions a
// weather keyword or carries a coordinate pair.
func IsWeatherRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return coordinateRe.MatchString(text)
}

// ExtractCoordinates returns the first coordinate pair in text. Pairs outside
// the valid latitude/longitude ranges are ignored.
func ExtractCoordinates(text string) (Coordinates, bool) {
	m := coordinateRe.FindStringSubmatch(text)
	if len(m) != 3 {
		return Coordinates{}, false
	}

	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lon: lon}, true
}

// RouteFor picks the handler for a message body.
func RouteFor(body string) Route {
	switch {
	case strings.TrimSpace(body) == "":
		return RouteEmpty
	case IsWeatherRequest(body):
		return RouteWeather
	default:
		return RouteAssistant
	}
}
