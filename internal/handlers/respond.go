package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marketplace/internal/catalog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned before the response was ready.
const statusClientClosedRequest = 499

// dataEnvelope and errorEnvelope are the two shapes of every API response.
// Count is set for list payloads only.
type dataEnvelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Success: true, Data: data})
}

// writeList sends a slice payload together with its length.
func writeList[T any](w http.ResponseWriter, status int, items []T) {
	n := len(items)
	writeJSON(w, status, dataEnvelope{Success: true, Count: &n, Data: items})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg})
}

// writeError maps a catalog error onto an HTTP status. Client errors echo
// the message; everything else is logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrConflict):
		writeFail(w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInvalidInput):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		slog.Debug("request canceled", "method", r.Method, "path", r.URL.Path)
		writeFail(w, statusClientClosedRequest, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out", "method", r.Method, "path", r.URL.Path)
		writeFail(w, http.StatusServiceUnavailable, "request timed out")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", catalog.ErrInvalidInput, raw)
	}
	return id, nil
}

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", catalog.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain a single JSON object", catalog.ErrInvalidInput)
	}
	return nil
}
