package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it.
// Internal errors are logged with the request logger and not echoed to the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		details = ""
	}
	writeError(w, status, message, details)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrTravelerNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrActualNotFound),
		errors.Is(err, domain.ErrForecastNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidSplitPolicy),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrInvalidIDFormat),
		errors.Is(err, domain.ErrNoTravelers),
		errors.Is(err, domain.ErrNotCostSharer),
		errors.Is(err, domain.ErrEmptyUpdate),
		errors.Is(err, domain.ErrMalformedLineItem):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConfirmationConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransientNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a size-limited request body. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseListQuery splits a comma-separated query parameter, dropping blanks.
func parseListQuery(r *http.Request, key string) []string {
	var values []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// tripID returns the trip path parameter.
func tripID(r *http.Request) string {
	return chi.URLParam(r, "tripID")
}
