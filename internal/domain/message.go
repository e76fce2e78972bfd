package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawEvent represents an unprocessed message from the inbound topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the outbound topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// InboundMessage is an SMS received from a user, as published by the webhook.
type InboundMessage struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to,omitempty"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// OutboundMessage is a compressed reply ready for SMS delivery.
type OutboundMessage struct {
	ID               string    `json:"id"`
	InReplyTo        string    `json:"in_reply_to,omitempty"`
	To               string    `json:"to"`
	Body             string    `json:"body"`
	Route            Route     `json:"route"`
	OriginalLength   int       `json:"original_length"`
	CompressedLength int       `json:"compressed_length"`
	CharactersSaved  int       `json:"characters_saved"`
	Truncated        bool      `json:"truncated"`
	Encoding         string    `json:"encoding"`
	Segments         int       `json:"segments"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// NewInboundMessage stamps a freshly received SMS with an ID and receive time.
func NewInboundMessage(from, to, body string) InboundMessage {
	return InboundMessage{
		ID:         uuid.NewString(),
		From:       from,
		To:         to,
		Body:       body,
		ReceivedAt: clock.Now().UTC(),
	}
}

// ParseInboundMessage deserializes a RawEvent's value into an InboundMessage.
// The body is trimmed; a missing receive time falls back to the message timestamp.
func ParseInboundMessage(raw RawEvent) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(raw.Value, &msg); err != nil {
		return InboundMessage{}, fmt.Errorf("parse inbound message: %w", err)
	}
	if strings.TrimSpace(msg.From) == "" {
		return InboundMessage{}, errors.New("parse inbound message: missing sender")
	}

	msg.Body = strings.TrimSpace(msg.Body)
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = raw.Timestamp
	}
	if msg.ID == "" {
		msg.ID = string(raw.Key)
	}
	return msg, nil
}

// NewOutboundMessage builds the reply to in from a compression result.
func NewOutboundMessage(in InboundMessage, route Route, result CompressionResult) OutboundMessage {
	seg := Segments(result.CompressedText)
	return OutboundMessage{
		ID:               uuid.NewString(),
		InReplyTo:        in.ID,
		To:               in.From,
		Body:             result.CompressedText,
		Route:            route,
		OriginalLength:   result.OriginalLength,
		CompressedLength: result.CompressedLength,
		CharactersSaved:  result.CharactersSaved,
		Truncated:        result.Truncated,
		Encoding:         seg.Encoding,
		Segments:         seg.Segments,
		ProcessedAt:      clock.Now().UTC(),
	}
}

// SerializeInboundMessage encodes an inbound SMS for the inbound topic, keyed
// by sender so one user's messages stay ordered.
func SerializeInboundMessage(msg InboundMessage) (OutputEvent, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize inbound message: %w", err)
	}
	return OutputEvent{
		Key:   []byte(msg.From),
		Value: data,
		Headers: map[string]string{
			"message_id":  msg.ID,
			"received_at": msg.ReceivedAt.Format(time.RFC3339),
		},
	}, nil
}

// SerializeOutboundMessage encodes a reply for the outbound topic, keyed by recipient.
func SerializeOutboundMessage(msg OutboundMessage) (OutputEvent, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize outbound message: %w", err)
	}
	return OutputEvent{
		Key:   []byte(msg.To),
		Value: data,
		Headers: map[string]string{
			"route":        string(msg.Route),
			"processed_at": msg.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
