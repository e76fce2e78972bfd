package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("+16478036114"),
		Value:     []byte(`{"from":"+16478036114","body":"weather"}`),
		Topic:     "inbound-sms",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "message_id", Value: []byte("SM1")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("+16478036114"), raw.Key)
	assert.JSONEq(t, `{"from":"+16478036114","body":"weather"}`, string(raw.Value))
	assert.Equal(t, "inbound-sms", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "SM1", raw.Headers["message_id"])
	assert.Nil(t, raw.Commit)
}

func TestToMessage_SortsHeaders(t *testing.T) {
	processed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	out, err := domain.SerializeOutboundMessage(domain.OutboundMessage{
		ID:          "reply-1",
		To:          "+16478036114",
		Body:        "wx: clear sky",
		Route:       domain.RouteWeather,
		ProcessedAt: processed,
	})
	require.NoError(t, err)

	msg := toMessage(out)

	assert.Equal(t, []byte("+16478036114"), msg.Key)
	assert.Contains(t, string(msg.Value), `"route":"weather"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "processed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "route", msg.Headers[1].Key)
	assert.Equal(t, []byte("weather"), msg.Headers[1].Value)
}

func TestToMessage_NoHeaders(t *testing.T) {
	msg := toMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("v")})

	assert.Empty(t, msg.Headers)
	assert.Equal(t, []byte("v"), msg.Value)
}
