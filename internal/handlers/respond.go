// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the answers API.
// Handlers are grouped by audience (public, admin, health) and receive
// their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cpp41419/fns50322-answers/internal/catalog"
)

// maxBodyBytes bounds JSON request bodies. Admin batches can be large.
const (
	maxBodyBytes      = 64 << 10
	maxAdminBodyBytes = 16 << 20
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string                     `json:"error"`
	Fields  any                        `json:"fields,omitempty"`
	Missing []catalog.MissingReference `json:"missing,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// writeError maps a catalog error onto an HTTP status and writes it.
// Storage failures and unexpected errors are logged; their details are
// not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *catalog.ValidationError
		rerr *catalog.ReferenceError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + verr.Entity, Fields: verr.Errors})
	case errors.As(err, &rerr):
		writeJSON(w, http.StatusConflict, errorBody{Error: "unknown category reference", Missing: rerr.Missing})
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, catalog.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, catalog.ErrReferentialViolation):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, catalog.ErrStorageUnavailable):
		slog.Error("storage unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", "5")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", catalog.ErrInvalidArgument, maxErr.Limit)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", catalog.ErrInvalidArgument, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", catalog.ErrInvalidArgument)
	}
	return nil
}

// queryLimit parses the optional "limit" query parameter. Absent means 0,
// which the catalog treats as its default.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", catalog.ErrInvalidArgument)
	}
	return n, nil
}

// storageFailure wraps errors from stores that do not speak the catalog
// taxonomy themselves.
func storageFailure(op string, err error) error {
	if errors.Is(err, catalog.ErrInvalidArgument) || errors.Is(err, catalog.ErrReferentialViolation) {
		return err
	}
	return &catalog.StorageError{Op: op, Err: err}
}
