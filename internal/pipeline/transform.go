package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
	"github.com/couchcryptid/beacon-relay-service/internal/observability"
)

// RelayTransformer implements Transformer: it answers an inbound SMS and
// compresses the answer for the return trip.
type RelayTransformer struct {
	responders domain.Responders
	compressor *domain.Compressor
	opts       domain.CompressionOptions
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a RelayTransformer. A nil compressor uses the
// default abbreviation table.
func NewTransformer(responders domain.Responders, compressor *domain.Compressor, opts domain.CompressionOptions, metrics *observability.Metrics, logger *slog.Logger) *RelayTransformer {
	if compressor == nil {
		compressor = domain.DefaultCompressor()
	}
	return &RelayTransformer{
		responders: responders,
		compressor: compressor,
		opts:       opts,
		metrics:    metrics,
		logger:     logger,
	}
}

// Transform parses the inbound message, generates and compresses the reply,
// and serializes it for the outbound topic. Only malformed messages fail;
// upstream outages still produce a fallback reply.
func (t *RelayTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	in, err := domain.ParseInboundMessage(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	reply := domain.GenerateReply(ctx, in.Body, t.responders, t.logger)
	result := domain.Uncompressed(reply.Text)
	if !reply.Verbatim {
		result = t.compressor.Compress(reply.Text, t.opts)
	}
	out := domain.NewOutboundMessage(in, reply.Route, result)

	t.metrics.Replies.WithLabelValues(string(reply.Route)).Inc()
	t.metrics.CharactersSaved.Observe(float64(result.CharactersSaved))
	t.metrics.ReplySegments.Observe(float64(out.Segments))
	if result.Truncated {
		t.metrics.Truncations.Inc()
	}

	t.logger.Debug("reply generated",
		"message_id", in.ID,
		"route", reply.Route,
		"original_length", result.OriginalLength,
		"compressed_length", result.CompressedLength,
		"segments", out.Segments,
	)
	return domain.SerializeOutboundMessage(out)
}
