package http

import (
	"encoding/json"
	"net/http"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

type compressRequest struct {
	Text             string  `json:"text"`
	MaxLength        *int    `json:"max_length,omitempty"`
	TruncationSuffix *string `json:"truncation_suffix,omitempty"`
	To               string  `json:"to,omitempty"`
}

type compressResponse struct {
	domain.CompressionResult
	PercentSaved *int   `json:"percent_saved,omitempty"`
	Summary      string `json:"summary"`
	domain.SegmentInfo
	SMSURI string `json:"sms_uri,omitempty"`
}

// handleCompress compresses arbitrary text with the server's rule table.
// Unset options fall back to the configured reply options; a missing "to"
// falls back to the relay number.
func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	var req compressRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	opts := s.deps.ReplyOptions
	if req.MaxLength != nil {
		if *req.MaxLength < 0 {
			writeError(w, http.StatusBadRequest, "max_length must not be negative")
			return
		}
		opts.MaxLength = *req.MaxLength
	}
	if req.TruncationSuffix != nil {
		opts.TruncationSuffix = *req.TruncationSuffix
	}

	result := s.deps.Compressor.Compress(req.Text, opts)
	resp := compressResponse{
		CompressionResult: result,
		Summary:           domain.SavingsSummary(result),
		SegmentInfo:       domain.Segments(result.CompressedText),
	}
	if pct, ok := domain.PercentSaved(result); ok {
		resp.PercentSaved = &pct
	}
	to := req.To
	if to == "" {
		to = s.deps.RelayNumber
	}
	if to != "" {
		resp.SMSURI = domain.SMSComposeURI(to, result.CompressedText)
	}
	writeJSON(w, http.StatusOK, resp)
}
