package observability

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	logger := NewLogger("warn", "text")

	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestNewMetricsForTesting_IsolatedRegistry(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Replies.WithLabelValues("weather").Inc()
	a.Replies.WithLabelValues("weather").Inc()

	assert.InDelta(t, 2, counterValue(t, a.Replies.WithLabelValues("weather")), 0)
	assert.InDelta(t, 0, counterValue(t, b.Replies.WithLabelValues("weather")), 0)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(a.MessagesConsumed))
}

func TestMetrics_CollectorsAreUnique(t *testing.T) {
	reg := prometheus.NewRegistry()
	for _, c := range NewMetricsForTesting().collectors() {
		require.NoError(t, reg.Register(c))
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
