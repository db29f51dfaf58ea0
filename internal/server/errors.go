package server

import (
	"cooked/internal/analysis"
	"cooked/internal/extract"
	"cooked/internal/schedule"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// apiError is the error body of every failed request.
type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

var (
	errInvalidJSON = errors.New("request body is not valid JSON")
	errEmptyText   = errors.New("text must not be empty")
	errMissingFile = errors.New("multipart field \"file\" is required")
)

// writeError maps an error to its HTTP status and writes it as JSON.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := apiError{Code: "internal_error", Message: "internal server error"}

	var (
		validationErr *schedule.ValidationError
		upstreamErr   *analysis.UpstreamError
		maxBytesErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
		body = apiError{Code: "validation_error", Message: "invalid schedule", Fields: validationErr.Fields}
	case errors.Is(err, extract.ErrNoClasses):
		status = http.StatusUnprocessableEntity
		body = apiError{Code: "no_classes", Message: err.Error()}
	case errors.Is(err, errEmptyText):
		status = http.StatusUnprocessableEntity
		body = apiError{Code: "empty_text", Message: err.Error()}
	case errors.Is(err, extract.ErrUnreadableDocument):
		status = http.StatusUnprocessableEntity
		body = apiError{Code: "unreadable_document", Message: err.Error()}
	case errors.Is(err, extract.ErrUnsupportedDocument):
		status = http.StatusUnsupportedMediaType
		body = apiError{Code: "unsupported_document", Message: err.Error()}
	case errors.As(err, &maxBytesErr):
		status = http.StatusRequestEntityTooLarge
		body = apiError{Code: "too_large", Message: "request body is too large"}
	case errors.Is(err, errInvalidJSON), errors.Is(err, errMissingFile):
		status = http.StatusBadRequest
		body = apiError{Code: "bad_request", Message: err.Error()}
	case errors.As(err, &upstreamErr):
		status = http.StatusBadGateway
		body = apiError{Code: "upstream_error", Message: upstreamErr.Collaborator + " is unavailable"}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("[Server] request failed", "status", status, "error", err)
	} else {
		slog.Warn("[Server] request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, map[string]apiError{"error": body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Unable to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(body)
}

func upstream(collaborator string, err error) error {
	return &analysis.UpstreamError{Collaborator: collaborator, Err: err}
}
