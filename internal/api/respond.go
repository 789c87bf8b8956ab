package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightboard/assessment/internal/attempt"
	"github.com/brightboard/assessment/internal/quizgen"
)

// errorResponse is the wire shape of every failure.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeGenerationError maps the generation error taxonomy onto HTTP. Input
// validation errors (anything outside the taxonomy) are the caller's fault.
func writeGenerationError(w http.ResponseWriter, err error) {
	var malformed *quizgen.MalformedOutputError
	var violation *quizgen.SchemaViolationError
	var timeout *quizgen.TimeoutError
	var transport *quizgen.TransportError

	switch {
	case errors.As(err, &timeout):
		writeError(w, http.StatusGatewayTimeout, "timeout", "quiz generation timed out, please try again")
	case errors.As(err, &malformed):
		writeError(w, http.StatusBadGateway, "malformed_output", "the model returned unusable output, please try again")
	case errors.As(err, &violation):
		writeError(w, http.StatusBadGateway, "schema_violation", violation.Error())
	case errors.As(err, &transport):
		writeError(w, http.StatusBadGateway, "upstream_failure", "quiz generation failed, please try again")
	case errors.Is(err, attempt.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", "session not found")
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}
