package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// handleInboundSMS accepts a Twilio-style form webhook and queues the message
// for the relay pipeline. The reply is sent asynchronously, so the webhook
// answers with empty TwiML.
func (s *Server) handleInboundSMS(w http.ResponseWriter, r *http.Request) {
	if s.deps.Publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "inbound publishing is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	from := strings.TrimSpace(r.PostForm.Get("From"))
	if from == "" {
		writeError(w, http.StatusBadRequest, "missing From")
		return
	}

	msg := domain.NewInboundMessage(from, strings.TrimSpace(r.PostForm.Get("To")), r.PostForm.Get("Body"))
	if sid := r.PostForm.Get("MessageSid"); sid != "" {
		msg.ID = sid
	}

	event, err := domain.SerializeInboundMessage(msg)
	if err != nil {
		s.logger.Error("serialize inbound sms failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not queue message")
		return
	}
	if err := s.deps.Publisher.Publish(r.Context(), event); err != nil {
		s.logger.Error("publish inbound sms failed", "error", err, "message_id", msg.ID)
		writeError(w, http.StatusBadGateway, "could not queue message")
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.InboundPublished.Inc()
	}
	s.logger.Info("inbound sms queued", "message_id", msg.ID, "body_length", domain.CharCount(msg.Body))

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, emptyTwiML) //nolint:errcheck // best-effort response
}
